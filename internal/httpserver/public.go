package httpserver

import (
	"net/http"

	usersvc "mybooklist/internal/service/user"
	"github.com/gin-gonic/gin"
)

func listBooksHandler(books bookService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := books.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func getBookHandler(books bookService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		b, err := books.GetByID(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

func listCategoriesHandler(categories categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := categories.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func booksByCategoryHandler(books bookService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form categoryForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		list, err := books.ListByCategory(c.Request.Context(), form.Category)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func topSalesHandler(books bookService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := books.TopSales(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func bookIDsInCartHandler(books bookService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID, ok := pathID(c, "cartid")
		if !ok {
			return
		}
		ids, err := books.IDsInCart(c.Request.Context(), cartID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, ids)
	}
}

func showCartHandler(books bookService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form cartForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		rows, err := books.InCartByIDAndPassword(c.Request.Context(), form.CartID, form.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func booksInOrderHandler(books bookService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := pathID(c, "orderid")
		if !ok {
			return
		}
		rows, err := books.InOrder(c.Request.Context(), orderID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func createCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		creds, err := carts.CreateAnonymous(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, creds)
	}
}

func addBookHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookID, ok := pathID(c, "bookid")
		if !ok {
			return
		}
		var form addBookForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		if form.Quantity == 0 {
			form.Quantity = 1
		}
		if err := carts.AddBookByPassword(c.Request.Context(), form.CartID, form.Password, bookID, form.Quantity); err != nil {
			writeError(c, err)
			return
		}
		writeMessage(c, "book added to cart")
	}
}

func reduceBookHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookID, ok := pathID(c, "bookid")
		if !ok {
			return
		}
		var form cartForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		if err := carts.ReduceBookByPassword(c.Request.Context(), form.CartID, form.Password, bookID); err != nil {
			writeError(c, err)
			return
		}
		writeMessage(c, "book quantity reduced")
	}
}

func deleteBookHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookID, ok := pathID(c, "bookid")
		if !ok {
			return
		}
		var form cartForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		if err := carts.DeleteBookByPassword(c.Request.Context(), form.CartID, form.Password, bookID); err != nil {
			writeError(c, err)
			return
		}
		writeMessage(c, "book removed from cart")
	}
}

func cartTotalHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form cartForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		total, err := carts.TotalByIDAndPassword(c.Request.Context(), form.CartID, form.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, total)
	}
}

func makeSaleHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form anonymousCheckoutForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		creds, err := orders.CheckoutByPassword(c.Request.Context(), form.CartID, form.Password, form.AddressInput)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, creds)
	}
}

func orderByPasswordHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form orderPasswordForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		o, err := orders.GetByIDAndPassword(c.Request.Context(), form.OrderID, form.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func orderTotalHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := pathID(c, "orderid")
		if !ok {
			return
		}
		total, err := orders.TotalOf(c.Request.Context(), orderID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, total)
	}
}

func checkOrderNumberHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form orderPasswordForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		if err := orders.CheckNumber(c.Request.Context(), form.OrderID, form.Password); err != nil {
			writeError(c, err)
			return
		}
		writeMessage(c, "order number is valid")
	}
}

func signupHandler(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in usersvc.SignupInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		u, err := users.Signup(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

func loginHandler(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form credentialsForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		u, token, err := users.Login(c.Request.Context(), form.Username, form.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token":     token,
			"expiresIn": users.AccessTTLSeconds(),
			"user":      u,
		})
	}
}

func verifyHandler(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form verifyForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		if err := users.Verify(c.Request.Context(), form.Code); err != nil {
			writeError(c, err)
			return
		}
		writeMessage(c, "account verified")
	}
}

func resetPasswordHandler(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form emailForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		if err := users.ResetPassword(c.Request.Context(), form.Email); err != nil {
			writeError(c, err)
			return
		}
		writeMessage(c, "new password sent")
	}
}
