package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ewpharma/tradelink-backend/internal/config"
	"github.com/ewpharma/tradelink-backend/internal/modules/asset"
	"github.com/ewpharma/tradelink-backend/internal/modules/auth"
	"github.com/ewpharma/tradelink-backend/internal/modules/manufacturer"
	"github.com/ewpharma/tradelink-backend/internal/modules/product"
	"github.com/ewpharma/tradelink-backend/internal/modules/relation"
	"github.com/ewpharma/tradelink-backend/internal/modules/trader"
	"github.com/ewpharma/tradelink-backend/internal/modules/user"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	adminID, err := uuid.Parse(cfg.DefaultAdminID)
	if err != nil {
		log.Fatalf("DEFAULT_ADMIN_ID is not a valid uuid: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Successfully connected to the database!")

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Shared infrastructure ───────────────────────────────
	relations := relation.NewManager(db, adminID, cfg.StoreTimeout)
	assetStore := asset.NewDiskStore(cfg.UploadDir)
	cleaner := asset.NewCleaner(assetStore)

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	user.NewHandler(userService).RegisterRoutes(router)

	authService := auth.NewService(userRepo, cfg.JWTSecret)
	auth.NewHandler(authService).RegisterRoutes(router)
	checkAuth := auth.CheckAuth(authService)

	// ── Catalog entities ────────────────────────────────────
	manufacturerRepo := manufacturer.NewPostgresRepository(db)
	manufacturerService := manufacturer.NewService(manufacturerRepo, relations, cleaner)
	manufacturer.NewHandler(manufacturerService, assetStore, cleaner).RegisterRoutes(router, checkAuth)

	traderRepo := trader.NewPostgresRepository(db)
	traderService := trader.NewService(traderRepo, relations, relations, cleaner)
	trader.NewHandler(traderService, assetStore, cleaner).RegisterRoutes(router, checkAuth)

	productRepo := product.NewPostgresRepository(db)
	productService := product.NewService(productRepo, relations, relations, cleaner, cfg.SerialNoBase)
	product.NewHandler(productService, assetStore, cleaner).RegisterRoutes(router, checkAuth)

	// ── Downloads ───────────────────────────────────────────
	asset.NewHandler(productService).RegisterRoutes(router)

	// ── Start server ────────────────────────────────────────
	server := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		fmt.Printf("TradeLink API server starting on :%s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
