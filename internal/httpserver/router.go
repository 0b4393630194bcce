package httpserver

import (
	"errors"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.BookSvc == nil || deps.CategorySvc == nil || deps.CartSvc == nil ||
		deps.OrderSvc == nil || deps.UserSvc == nil || deps.Tokens == nil {
		return nil, errors.New("httpserver: missing dependencies")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	// Public catalog and anonymous cart/order routes.
	router.GET("/books", listBooksHandler(deps.BookSvc))
	router.GET("/books/:id", getBookHandler(deps.BookSvc))
	router.GET("/categories", listCategoriesHandler(deps.CategorySvc))
	router.POST("/booksbycategory", booksByCategoryHandler(deps.BookSvc))
	router.GET("/topsales", topSalesHandler(deps.BookSvc))
	router.GET("/booksids/:cartid", bookIDsInCartHandler(deps.BookSvc))
	router.POST("/showcart", showCartHandler(deps.BookSvc))
	router.GET("/booksinorder/:orderid", booksInOrderHandler(deps.BookSvc))

	router.POST("/createcart", createCartHandler(deps.CartSvc))
	router.POST("/addbook/:bookid", addBookHandler(deps.CartSvc))
	router.PUT("/reduceitemnoauth/:bookid", reduceBookHandler(deps.CartSvc))
	router.DELETE("/deletebook/:bookid", deleteBookHandler(deps.CartSvc))
	router.POST("/totalofcart", cartTotalHandler(deps.CartSvc))

	router.POST("/makesale", makeSaleHandler(deps.OrderSvc))
	router.POST("/orderbypassword", orderByPasswordHandler(deps.OrderSvc))
	router.GET("/getordertotal/:orderid", orderTotalHandler(deps.OrderSvc))
	router.POST("/checkordernumber", checkOrderNumberHandler(deps.OrderSvc))

	router.POST("/signup", signupHandler(deps.UserSvc))
	router.POST("/login", loginHandler(deps.UserSvc))
	router.PUT("/verify", verifyHandler(deps.UserSvc))
	router.PUT("/resetpassword", resetPasswordHandler(deps.UserSvc))

	// Routes keyed by the authenticated caller's identity.
	authed := router.Group("/", authMiddleware(deps.Tokens))
	authed.GET("/users/:userid", getUserHandler(deps.UserSvc))
	authed.PUT("/updateuser/:userid", updateUserHandler(deps.UserSvc))
	authed.PUT("/changepassword", changePasswordHandler(deps.UserSvc))
	authed.GET("/users/:userid/orders", userOrdersHandler(deps.OrderSvc))
	authed.GET("/booksids", bookIDsInCurrentCartHandler(deps.BookSvc))
	authed.GET("/showcart/:userid", showCurrentCartHandler(deps.BookSvc))
	authed.GET("/getcurrenttotal", currentTotalHandler(deps.CartSvc))
	authed.GET("/currentcartquantity", currentQuantityHandler(deps.CartSvc))
	authed.POST("/additem/:bookid", addItemHandler(deps.CartSvc))
	authed.PUT("/reduceitem/:bookid", reduceItemHandler(deps.CartSvc))
	authed.DELETE("/deleteitem/:bookid", deleteItemHandler(deps.CartSvc))
	authed.DELETE("/clearcart/:userid", clearCartHandler(deps.CartSvc))
	authed.POST("/makesale/:userid", makeSaleAuthedHandler(deps.OrderSvc))

	return router, nil
}
