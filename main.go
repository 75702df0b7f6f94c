package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go-restaurant-pos/cart"
	"go-restaurant-pos/catalog"
	"go-restaurant-pos/checkout"
	"go-restaurant-pos/config"
	"go-restaurant-pos/controllers"
	"go-restaurant-pos/database"
	"go-restaurant-pos/helpers"
	"go-restaurant-pos/receipt"
	"go-restaurant-pos/routes"
	"go-restaurant-pos/settings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// store is everything the services need from persistence.
type store interface {
	checkout.Repository
	catalog.Repository
	receipt.Source
	settings.Store
	controllers.UserStore
}

var (
	_ store = (*database.MongoStore)(nil)
	_ store = (*database.MemoryStore)(nil)
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		db    store
		pings []func(context.Context) error
	)
	if cfg.UseMemoryStore() {
		log.Println("using in-process store; data is lost on restart")
		db = database.NewMemoryStore()
	} else {
		client, err := database.DBinstance(ctx, cfg.MongoURL)
		if err != nil {
			log.Fatal(err)
		}
		defer client.Disconnect(context.Background())
		mongoStore := database.NewMongoStore(client, cfg.MongoDatabase)
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			log.Fatalf("mongodb indexes: %v", err)
		}
		db = mongoStore
		pings = append(pings, func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) })
	}

	var carts cart.Store
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("REDIS_URL: %v", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis: %v", err)
		}
		log.Println("connected to redis")
		carts = cart.NewRedisStore(rdb, cfg.CartTTL)
		pings = append(pings, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	} else {
		log.Println("REDIS_URL not set; carts are kept in process")
		carts = cart.NewMemoryStore()
	}

	prefs := settings.NewService(db, cfg.Restaurant)
	ctl := &controllers.Controller{
		Carts:    cart.NewService(carts, db, prefs),
		Orders:   checkout.NewService(db, carts, prefs),
		Catalog:  catalog.NewService(db),
		Settings: prefs,
		Receipts: receipt.NewGenerator(db, prefs),
		Users:    db,
		Tokens:   helpers.NewTokenMaker(cfg.SecretKey),
		Hub:      controllers.NewHub(cfg.AllowedOrigins...),
		Timeout:  15 * time.Second,
		Ping: func(ctx context.Context) error {
			for _, ping := range pings {
				if err := ping(ctx); err != nil {
					return err
				}
			}
			return nil
		},
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "token", "X-Session-Id"},
		ExposeHeaders:    []string{"Content-Length", "X-Session-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Page not found"})
	})
	routes.Register(router, ctl)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
