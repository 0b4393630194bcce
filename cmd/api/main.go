package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"mybooklist/internal/auth"
	"mybooklist/internal/config"
	"mybooklist/internal/db"
	"mybooklist/internal/httpserver"
	"mybooklist/internal/janitor"
	"mybooklist/internal/mail"
	bookrepo "mybooklist/internal/repository/book"
	cartrepo "mybooklist/internal/repository/cart"
	categoryrepo "mybooklist/internal/repository/category"
	orderrepo "mybooklist/internal/repository/order"
	userrepo "mybooklist/internal/repository/user"
	booksvc "mybooklist/internal/service/book"
	cartsvc "mybooklist/internal/service/cart"
	categorysvc "mybooklist/internal/service/category"
	ordersvc "mybooklist/internal/service/order"
	usersvc "mybooklist/internal/service/user"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	var mailer mail.Mailer
	if cfg.SMTPAddr != "" {
		mailer = mail.NewSMTP(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword)
	} else {
		logger.Println("no SMTP server configured, mail goes to the log")
		mailer = mail.NewLog(logger)
	}

	tokens := auth.NewManager([]byte(cfg.JWTSecret), cfg.AccessTokenTTL)

	bookRepo := bookrepo.NewPostgres(dbpool, logger)
	categoryRepo := categoryrepo.NewPostgres(dbpool)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool, logger)

	cartService := cartsvc.New(cartRepo, bookRepo, cfg.CartTTLDays)
	bookService := booksvc.New(bookRepo, cartService, orderRepo)
	categoryService := categorysvc.New(categoryRepo)
	orderService := ordersvc.New(orderRepo, cartService, cartRepo, mailer)
	userService := usersvc.New(userRepo, cartService, tokens, mailer)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		BookSvc:     bookService,
		CategorySvc: categoryService,
		CartSvc:     cartService,
		OrderSvc:    orderService,
		UserSvc:     userService,
		Tokens:      tokens,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	sweeper := janitor.New(cartRepo, cfg.JanitorInterval, log.New(os.Stdout, "[janitor] ", log.LstdFlags|log.LUTC))
	go sweeper.Run(ctx)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
