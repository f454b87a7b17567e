package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"autobier-api/internal/client"
	"autobier-api/internal/config"
	"autobier-api/internal/repository"
	"autobier-api/internal/server"
	"autobier-api/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Asaas.APIKey == "" {
		fmt.Println("ASAAS_API_KEY is not configured")
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		fmt.Println("JWT_SECRET is not configured")
		os.Exit(1)
	}

	db := client.InitMysqlClient(cfg.DatabaseURL)
	asaasClient := client.NewAsaasClient(&cfg.Asaas)

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	orderService := service.NewOrderService(db, asaasClient, orderRepo, productRepo)
	webhookService := service.NewWebhookService(db, orderRepo)
	productService := service.NewProductService(productRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo, productRepo)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(cfg.JWTSecret, orderService, webhookService, productService, categoryService)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
