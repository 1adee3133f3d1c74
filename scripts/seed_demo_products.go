package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"mini-shop/internal/catalog"
	"mini-shop/internal/config"
	"mini-shop/internal/database"
	"mini-shop/internal/repository"
	"mini-shop/internal/service"
)

// Seeds the demo catalogue into the configured database. Run with:
//
//	ADMIN_API_KEY=dev go run scripts/seed_demo_products.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	productRepo := repository.NewProductRepository(pool, logger)
	productService := service.NewProductService(productRepo, logger)

	products := catalog.DemoProducts(time.Now())
	if err := productService.ReplaceAll(ctx, products); err != nil {
		log.Fatalf("Failed to seed demo products: %v", err)
	}

	for _, p := range products {
		fmt.Printf("Seeded %s (%s) - %d %s\n", p.ID, p.Name, p.Price, p.Currency)
	}
	fmt.Println("\nDemo catalogue seeded successfully!")
}
