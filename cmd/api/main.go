package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rv-work/Mini-Buyers/internal/config"
	"github.com/rv-work/Mini-Buyers/internal/database"
	"github.com/rv-work/Mini-Buyers/internal/domain/auth"
	"github.com/rv-work/Mini-Buyers/internal/domain/buyer"
	"github.com/rv-work/Mini-Buyers/internal/middleware"
	"github.com/rv-work/Mini-Buyers/internal/ratelimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(&auth.User{}, &buyer.Buyer{}, &buyer.ChangeRecord{}); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	userRepo := auth.NewRepository(db)
	buyerRepo := buyer.NewRepository(db)

	limiter := ratelimit.New(time.Minute)
	buyerService := buyer.NewService(buyerRepo, limiter, buyer.Limits{
		CreatePerMinute: cfg.CreatePerMinute,
		UpdatePerMinute: cfg.UpdatePerMinute,
	})

	authHandler := auth.NewHandler(userRepo, cfg.CookieSecure)
	buyerHandler := buyer.NewHandler(buyerService)

	r := gin.Default()
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.ErrorLogger())

	root := r.Group("")
	{
		// public
		auth.RegisterRoutes(root, authHandler)

		// session required
		protected := root.Group("")
		protected.Use(middleware.Session(userRepo))
		{
			buyer.RegisterRoutes(protected, buyerHandler)
		}
	}

	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
