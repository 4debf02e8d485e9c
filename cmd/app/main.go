package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/deeying/shop-backend/internal/address"
	"github.com/deeying/shop-backend/internal/bankinfo"
	"github.com/deeying/shop-backend/internal/cart"
	"github.com/deeying/shop-backend/internal/checkout"
	"github.com/deeying/shop-backend/internal/config"
	"github.com/deeying/shop-backend/internal/history"
	"github.com/deeying/shop-backend/internal/product"
	"github.com/deeying/shop-backend/internal/slip"
	"github.com/deeying/shop-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)
	app.Use(requestLog)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	ensureSchema(db)

	if err := os.MkdirAll(cfg.UploadDir+"/slips", 0o755); err != nil {
		panic(err)
	}
	app.Static("/uploads", cfg.UploadDir)

	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService)

	productService := product.NewService(product.NewPostgresRepository(db))
	productHandler := product.NewHandler(productService)

	bankInfoHandler := bankinfo.NewHandler(bankinfo.NewService(bankinfo.NewPostgresRepository(db)))

	checkoutService := checkout.NewService(checkout.NewPostgresRepository(db))
	checkoutHandler := checkout.NewHandler(checkoutService)

	addressService := address.NewService(address.NewPostgresRepository(db), checkoutService)
	addressHandler := address.NewHandler(addressService)

	// per-user editable carts live in memory; submissions snapshot them
	// into the carts table
	stores := cart.NewManager()
	cartHandler := cart.NewHandler(stores, productService)

	slipService := slip.NewService(slip.NewPostgresRepository(db), checkoutService, addressService, stores, cfg.MaxUploadBytes)
	slipHandler := slip.NewHandler(slipService, userService, cfg.UploadDir)

	historyHandler := history.NewHandler(history.NewService(checkoutService, addressService, slipService))

	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	bankInfoHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	checkoutHandler.RegisterProtectedRoutes(app)
	addressHandler.RegisterProtectedRoutes(app)
	slipHandler.RegisterProtectedRoutes(app)
	historyHandler.RegisterProtectedRoutes(app)

	userHandler.RegisterAdminRoutes(app)
	slipHandler.RegisterAdminRoutes(app)
	bankInfoHandler.RegisterAdminRoutes(app)

	if err := app.Listen(cfg.Addr); err != nil {
		panic(err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func requestLog(c *fiber.Ctx) error {
	fmt.Printf("URL = %s, Method = %s, Start Time = %v\n", c.OriginalURL(), c.Method(), time.Now())
	return c.Next()
}

func mustOpenDB(dbURL string) *sql.DB {
	if dbURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

func ensureSchema(db *sql.DB) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id SERIAL PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			first_name TEXT,
			last_name TEXT,
			phone TEXT,
			role TEXT NOT NULL DEFAULT 'user',
			enabled BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			product_id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			price NUMERIC NOT NULL DEFAULT 0,
			description TEXT,
			image TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS carts (
			cart_id TEXT PRIMARY KEY,
			user_id INT NOT NULL,
			items JSONB NOT NULL DEFAULT '[]',
			total_amount NUMERIC NOT NULL DEFAULT 0,
			created_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS addresses (
			cart_id TEXT PRIMARY KEY,
			user_id INT NOT NULL,
			address TEXT NOT NULL,
			saved_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS slips (
			slip_id SERIAL PRIMARY KEY,
			cart_id TEXT NOT NULL,
			user_id INT NOT NULL,
			amount NUMERIC NOT NULL,
			file_path TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			submitted_at TEXT,
			decided_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS bank_info (
			id INT PRIMARY KEY,
			bank_name TEXT NOT NULL,
			account_number TEXT NOT NULL,
			account_name TEXT,
			qr_code_image TEXT,
			bank_logo TEXT,
			updated_at TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}
