package server

import (
	"log"
	"strings"
	"time"

	"github.com/btlam02/gis-app/internal/config"
	"github.com/btlam02/gis-app/internal/middleware"
	"github.com/btlam02/gis-app/internal/token"
	"github.com/btlam02/gis-app/pkg/storage"

	bridgeHttp "github.com/btlam02/gis-app/internal/modules/bridge/delivery/http"
	bridgeRepo "github.com/btlam02/gis-app/internal/modules/bridge/repository"
	bridgeService "github.com/btlam02/gis-app/internal/modules/bridge/service"

	eventHttp "github.com/btlam02/gis-app/internal/modules/event/delivery/http"
	eventService "github.com/btlam02/gis-app/internal/modules/event/service"

	searchService "github.com/btlam02/gis-app/internal/modules/search/service"

	userHttp "github.com/btlam02/gis-app/internal/modules/user/delivery/http"
	userRepo "github.com/btlam02/gis-app/internal/modules/user/repository"
	userService "github.com/btlam02/gis-app/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	users := userRepo.NewUserRepository(db)
	bridges := bridgeRepo.NewBridgeRepository(db)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	var blacklist token.Blacklist
	if redisClient != nil {
		blacklist = token.NewRedisBlacklist(redisClient)
	} else {
		log.Println("Redis unavailable, token revocation will not survive restarts")
		blacklist = token.NewMemoryBlacklist()
	}
	issuer := token.NewIssuer(cfg, blacklist)

	var searchSvc searchService.SearchService
	if cfg.MeiliSearchHost != "" {
		meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchSvc = searchService.NewMeiliSearchService(meiliClient)
	}

	eventSvc := eventService.NewEventService(redisClient)

	authSvc := userService.NewAuthService(users, issuer)
	authHandler := userHttp.NewAuthHandler(authSvc)

	userSvc := userService.NewUserService(users)
	userHandler := userHttp.NewUserHandler(userSvc)

	bridgeSvc := bridgeService.NewBridgeService(bridges, imageStorage, searchSvc, eventSvc, cfg)
	bridgeHandler := bridgeHttp.NewBridgeHandler(bridgeSvc, searchSvc)

	eventHandler := eventHttp.NewEventHandler(redisClient)

	router := gin.New()

	setupCORS(router, cfg)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(issuer, users)

	api := router.Group("/api")

	usersGroup := api.Group("/users")
	{
		usersGroup.POST("/register", authHandler.Register)
		usersGroup.POST("/login", authHandler.Login)
		usersGroup.POST("/token/refresh", authHandler.Refresh)

		protected := usersGroup.Group("")
		protected.Use(authMiddleware.RequireAuth())
		{
			protected.POST("/logout", authMiddleware.Authorize("auth", "logout"), authHandler.Logout)
			protected.GET("/me", authMiddleware.Authorize("users", "me"), authHandler.Me)

			protected.GET("/users", authMiddleware.Authorize("users", "list"), userHandler.GetAll)
			protected.POST("/users", authMiddleware.Authorize("users", "create"), userHandler.Create)
			protected.GET("/users/:id", authMiddleware.Authorize("users", "read"), userHandler.Get)
			protected.PUT("/users/:id", authMiddleware.Authorize("users", "update"), userHandler.Update)
			protected.DELETE("/users/:id", authMiddleware.Authorize("users", "delete"), userHandler.Delete)
		}
	}

	bridgesGroup := api.Group("/bridges")
	{
		bridgesGroup.GET("", authMiddleware.Authorize("bridges", "list"), bridgeHandler.GetAll)
		bridgesGroup.GET("/search", authMiddleware.Authorize("bridges", "search"), bridgeHandler.Search)
		bridgesGroup.GET("/ws", authMiddleware.Authorize("bridges", "watch"), eventHandler.HandleWebSocket)
		bridgesGroup.GET("/:id", authMiddleware.Authorize("bridges", "read"), bridgeHandler.Get)

		mutating := bridgesGroup.Group("")
		mutating.Use(authMiddleware.RequireAuth())
		{
			mutating.POST("", authMiddleware.Authorize("bridges", "create"), bridgeHandler.Create)
			mutating.PUT("/:id", authMiddleware.Authorize("bridges", "update"), bridgeHandler.Update)
			mutating.DELETE("/:id", authMiddleware.Authorize("bridges", "delete"), bridgeHandler.Delete)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	origins := strings.Split(cfg.AllowedOrigins, ",")

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
