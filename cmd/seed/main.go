// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"stockroom/internal/domain/auth"
	"stockroom/internal/domain/catalogs/item"
	"stockroom/internal/domain/catalogs/uom"
	"stockroom/internal/domain/catalogs/warehouse"
	"stockroom/internal/infrastructure/storage/postgres"
	"stockroom/internal/infrastructure/storage/postgres/auth_repo"
	"stockroom/internal/infrastructure/storage/postgres/catalog_repo"
	"stockroom/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	companyID := envOr("SEED_COMPANY_ID", "acme")

	if err := seedAdminUser(ctx, txManager, companyID, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, txManager, companyID, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding complete")
}

func seedAdminUser(ctx context.Context, txm *postgres.TxManager, companyID string, log *logger.Logger) error {
	users := auth_repo.NewUserRepo(txm)

	email := envOr("SEED_ADMIN_EMAIL", "admin@example.com")
	password := envOr("SEED_ADMIN_PASSWORD", "changeme123")

	exists, err := users.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if exists {
		log.Infow("admin user already exists", "email", email)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := auth.NewUser(companyID, email, string(hash))
	admin.FullName = "Administrator"
	admin.IsAdmin = true

	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	log.Infow("admin user created", "email", email, "company", companyID)
	return nil
}

func seedDemoData(ctx context.Context, txm *postgres.TxManager, companyID string, log *logger.Logger) error {
	return txm.RunInTransaction(ctx, func(ctx context.Context) error {
		uoms := catalog_repo.NewUOMRepo(txm)
		warehouses := catalog_repo.NewWarehouseRepo(txm)
		items := catalog_repo.NewItemRepo(txm)

		pcs := uom.NewUOM(companyID, "UOM-0001", "Piece", "pcs")
		kg := uom.NewUOM(companyID, "UOM-0002", "Kilogram", "kg")
		for _, u := range []*uom.UOM{pcs, kg} {
			if err := uoms.Create(ctx, u); err != nil {
				return fmt.Errorf("create uom %s: %w", u.Name, err)
			}
		}

		main := warehouse.NewWarehouse(companyID, "WH-0001", "Main Warehouse", warehouse.TypeMain)
		main.IsDefault = true
		shop := warehouse.NewWarehouse(companyID, "WH-0002", "Retail Shop", warehouse.TypeRetail)
		for _, wh := range []*warehouse.Warehouse{main, shop} {
			if err := warehouses.Create(ctx, wh); err != nil {
				return fmt.Errorf("create warehouse %s: %w", wh.Name, err)
			}
		}

		demoItems := []struct {
			code, name, barcode string
			uomID               string
		}{
			{"ITM-0001", "Office Chair", "4601234567893", pcs.ID.String()},
			{"ITM-0002", "Standing Desk", "4601234567894", pcs.ID.String()},
			{"ITM-0003", "Coffee Beans", "4601234567895", kg.ID.String()},
		}
		for _, d := range demoItems {
			it := item.NewItem(companyID, d.code, d.name, item.TypeGoods)
			barcode := d.barcode
			uomID := d.uomID
			it.Barcode = &barcode
			it.UOMID = &uomID
			if err := items.Create(ctx, it); err != nil {
				return fmt.Errorf("create item %s: %w", d.name, err)
			}
		}

		log.Infow("demo data created",
			"uoms", 2, "warehouses", 2, "items", len(demoItems))
		return nil
	})
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
