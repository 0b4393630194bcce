package httpserver

import (
	"net/http"

	ordersvc "mybooklist/internal/service/order"
	usersvc "mybooklist/internal/service/user"
	"github.com/gin-gonic/gin"
)

func getUserHandler(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireSelf(c)
		if !ok {
			return
		}
		u, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func updateUserHandler(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireSelf(c)
		if !ok {
			return
		}
		var in usersvc.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		u, err := users.UpdateProfile(c.Request.Context(), userID, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func changePasswordHandler(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form changePasswordForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		if err := users.ChangePassword(c.Request.Context(), callerID(c), form.OldPassword, form.NewPassword); err != nil {
			writeError(c, err)
			return
		}
		writeMessage(c, "password changed")
	}
}

func userOrdersHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireSelf(c)
		if !ok {
			return
		}
		list, err := orders.ListByUser(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func bookIDsInCurrentCartHandler(books bookService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, err := books.IDsInCurrentCartOf(c.Request.Context(), callerID(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, ids)
	}
}

func showCurrentCartHandler(books bookService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireSelf(c)
		if !ok {
			return
		}
		rows, err := books.InCurrentCartOf(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func currentTotalHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		total, err := carts.CurrentTotal(c.Request.Context(), callerID(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, total)
	}
}

func currentQuantityHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		qty, err := carts.CurrentQuantity(c.Request.Context(), callerID(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, qty)
	}
}

func addItemHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookID, ok := pathID(c, "bookid")
		if !ok {
			return
		}
		var form quantityForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		if form.Quantity == 0 {
			form.Quantity = 1
		}
		if err := carts.AddBookForUser(c.Request.Context(), callerID(c), bookID, form.Quantity); err != nil {
			writeError(c, err)
			return
		}
		writeMessage(c, "book added to cart")
	}
}

func reduceItemHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookID, ok := pathID(c, "bookid")
		if !ok {
			return
		}
		if err := carts.ReduceBookForUser(c.Request.Context(), callerID(c), bookID); err != nil {
			writeError(c, err)
			return
		}
		writeMessage(c, "book quantity reduced")
	}
}

func deleteItemHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookID, ok := pathID(c, "bookid")
		if !ok {
			return
		}
		if err := carts.DeleteBookForUser(c.Request.Context(), callerID(c), bookID); err != nil {
			writeError(c, err)
			return
		}
		writeMessage(c, "book removed from cart")
	}
}

func clearCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireSelf(c)
		if !ok {
			return
		}
		removed, err := carts.ClearCurrent(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": removed})
	}
}

func makeSaleAuthedHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireSelf(c)
		if !ok {
			return
		}
		var in ordersvc.AddressInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		creds, err := orders.CheckoutForUser(c.Request.Context(), userID, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, creds)
	}
}
