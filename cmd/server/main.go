package main

import (
	"log"
	"time"

	"ecommerce-backend/internal/config"
	"ecommerce-backend/internal/controllers/http"
	"ecommerce-backend/internal/infra/mpesa"
	mmysql "ecommerce-backend/internal/infra/mysql"
	"ecommerce-backend/internal/infra/rabbitmq"
	mysqlrepo "ecommerce-backend/internal/repository/mysql"
	"ecommerce-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := mmysql.NewMySQL(cfg)
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	store := mysqlrepo.NewStore(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DB:           cfg.RedisDB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	gateway := mpesa.NewClient(cfg.Mpesa)
	if cfg.Mpesa.Simulated {
		log.Println("mpesa: no credentials configured, running in simulated mode")
	}

	auth := services.NewAuthService(store, redisClient, cfg.SessionTTL)

	catalog := services.NewCatalogService(store)
	catalog.SetRedisClient(redisClient)

	orders := services.NewOrderService(store, publisher)
	orders.SetRedisClient(redisClient)

	payments := services.NewPaymentService(store, gateway, publisher)
	wishlist := services.NewWishlistService(store)

	handler := http.NewHandler(auth, catalog, orders, payments, wishlist)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	log.Printf("starting ecommerce backend on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
