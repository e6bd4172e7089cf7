package server

import (
	"fmt"
	"net/http"
	"time"

	"oohunt/internal/cache"
	"oohunt/internal/catalog"
	"oohunt/internal/config"
	"oohunt/internal/database"
	"oohunt/internal/domain"
	"oohunt/internal/favorites"
	"oohunt/internal/metrics"
	custommiddleware "oohunt/internal/middleware"
	"oohunt/internal/repository"
	"oohunt/internal/service"
	"oohunt/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// RateLimitKeyPrefix namespaces rate limit counters in Redis
const RateLimitKeyPrefix = "oohunt:ratelimit"

// Dependencies are the process-wide resources built by the entry point
type Dependencies struct {
	DB database.Service
	// Redis is optional; nil disables response caching and limits per process
	Redis   *redis.Client
	Catalog catalog.Client
	// FS holds anonymous favorites documents
	FS afero.Fs
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	deps   Dependencies
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Dependencies) (*Server, error) {
	debug := cfg.Server.IsDevelopment()
	db := deps.DB.DB()

	var store cache.Store = cache.NoopStore{}
	if deps.Redis != nil {
		store = cache.NewRedisStore(deps.Redis, cache.DefaultPrefix)
	}

	// Initialize repositories
	pageRepo := repository.NewPageRepository(db)
	tagRepo := repository.NewTagRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	userRepo := repository.NewUserRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	contactRepo := repository.NewContactRepository(db)

	// Initialize services
	contentService := service.NewContentService(pageRepo, service.NewProductResolver(productRepo), logger)
	taxonomyService := service.NewTaxonomyService(tagRepo, categoryRepo, pageRepo)
	catalogService := service.NewCatalogService(deps.Catalog, productRepo)
	formService := service.NewFormService(subscriptionRepo, contactRepo)
	userService := service.NewUserService(userRepo, logger)

	clientIDs := favorites.NewClientIDValidator(cfg.Favorites.ClientIDPrefix)
	fileStore, err := favorites.NewFileStore(deps.FS, cfg.Favorites.Dir, clientIDs)
	if err != nil {
		return nil, err
	}
	stores := favorites.Stores{Anonymous: fileStore, User: favorites.NewDBStore(favoriteRepo)}

	// Initialize handlers
	contentHandler := transport.NewContentHandler(contentService, store, logger, debug)
	taxonomyHandler := transport.NewTaxonomyHandler(taxonomyService, store, logger, debug)
	productHandler := transport.NewProductHandler(catalogService, store, logger, debug)
	formHandler := transport.NewFormHandler(formService, logger, debug)
	userHandler := transport.NewUserHandler(userService, logger, debug)
	anonymousFavorites, err := transport.NewFavoritesHandler(stores, domain.OwnerAnonymous, logger)
	if err != nil {
		return nil, err
	}
	accountFavorites, err := transport.NewFavoritesHandler(stores, domain.OwnerUser, logger)
	if err != nil {
		return nil, err
	}

	// Create middleware
	auth := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	editor := custommiddleware.RequireEditor(logger)
	admin := custommiddleware.RequireAdmin(logger)
	limit := custommiddleware.RateLimitMiddleware(deps.Redis, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         RateLimitKeyPrefix,
	}, logger)
	cachedContent := cache.Middleware(store, cfg.Cache.Revalidate, logger, cache.TagContent)
	cachedTaxonomy := cache.Middleware(store, cfg.Cache.Revalidate, logger, cache.TagTaxonomy)

	router := chi.NewRouter()
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(metrics.Middleware)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, debug))

	router.Get("/health", healthHandler(deps.DB))
	router.Handle("/metrics", promhttp.Handler())

	// Register routes
	contentHandler.RegisterPublicRoutes(router, cachedContent)
	taxonomyHandler.RegisterPublicRoutes(router, cachedTaxonomy)
	productHandler.RegisterRoutes(router)
	formHandler.RegisterRoutes(router, limit)
	anonymousFavorites.RegisterRoutes(router, "/api/user/favorites",
		custommiddleware.RequireClientID(clientIDs, logger), limit)
	accountFavorites.RegisterRoutes(router, "/api/account/favorites", auth, limit)

	contentHandler.RegisterAdminRoutes(router, auth, editor)
	taxonomyHandler.RegisterAdminRoutes(router, auth, editor)
	productHandler.RegisterAdminRoutes(router, auth, editor)
	userHandler.RegisterRoutes(router, auth, admin)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		deps:   deps,
	}

	return server, nil
}

func healthHandler(db database.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := db.Health(r.Context())
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, custommiddleware.Envelope{
			Status: status == http.StatusOK,
			Data:   map[string]interface{}{"database": health},
		})
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.deps.Redis != nil {
		if err := s.deps.Redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.deps.DB != nil {
		if err := s.deps.DB.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return nil
}
