package handler

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"intranet-portal-backend/pkg/config"
	"intranet-portal-backend/pkg/content"
	"intranet-portal-backend/pkg/database"
	"intranet-portal-backend/pkg/handlers"
	"intranet-portal-backend/pkg/logger"
	"intranet-portal-backend/pkg/metrics"
	customMiddleware "intranet-portal-backend/pkg/middleware"
	"intranet-portal-backend/pkg/storage"
	"intranet-portal-backend/pkg/taxonomy"
	"intranet-portal-backend/pkg/utils"
)

// Vercel 函数实例内复用路由与指标，数据库连接变化时重建路由
var (
	serverMetrics = sync.OnceValue(metrics.NewWithRuntime)
	rootLogger    = sync.OnceValue(func() zerolog.Logger { return logger.FromConfig(config.GetCached()) })

	routerMu     sync.Mutex
	cachedRouter http.Handler
	cachedDB     database.DatabaseInterface
)

// Handler 是Vercel函数的入口点
// 所有API端点集中在一个Chi路由器中管理
func Handler(w http.ResponseWriter, r *http.Request) {
	cfg := config.GetCached()
	if err := cfg.Validate(); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Configuration error: "+err.Error())
		return
	}
	log := rootLogger()

	db, err := database.GetDatabase(database.DatabaseConfig{
		Driver:      cfg.DatabaseDriver,
		PostgresDSN: cfg.PostgresDSN,
		SQLitePath:  cfg.SQLitePath,
		Debug:       cfg.Debug,
	})
	if err != nil {
		log.Error().Err(err).Msg("❌ Database unavailable")
		utils.WriteErrorResponseWithCode(w, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "database unavailable")
		return
	}

	router, err := routerFor(cfg, db, log)
	if err != nil {
		log.Error().Err(err).Msg("❌ Router setup failed")
		utils.WriteInternalServerErrorResponse(w, "router setup failed")
		return
	}
	router.ServeHTTP(w, r)
}

func routerFor(cfg *config.Config, db database.DatabaseInterface, log zerolog.Logger) (http.Handler, error) {
	routerMu.Lock()
	defer routerMu.Unlock()
	if cachedRouter != nil && cachedDB == db {
		return cachedRouter, nil
	}
	router, err := NewRouter(cfg, db, serverMetrics(), log)
	if err != nil {
		return nil, err
	}
	cachedRouter, cachedDB = router, db
	return router, nil
}

// NewRouter 组装完整的路由：全局中间件 + /api 路由表 + /metrics + /uploads
func NewRouter(cfg *config.Config, db database.DatabaseInterface, m *metrics.Metrics, log zerolog.Logger) (*chi.Mux, error) {
	uploader, err := storage.NewLocalUploader(cfg.UploadDir, cfg.PublicBaseURL, cfg.MaxBodyBytes)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	setupMiddleware(router, cfg, m, log)
	setupRoutes(router, cfg, db, m, log, uploader)
	return router, nil
}

// setupMiddleware 设置全局中间件
func setupMiddleware(router *chi.Mux, cfg *config.Config, m *metrics.Metrics, log zerolog.Logger) {
	router.Use(middleware.RealIP)
	// Normalize path and restore scheme/host before logging and routing
	router.Use(customMiddleware.Normalize())
	router.Use(customMiddleware.Logger(log))
	router.Use(customMiddleware.Recovery(cfg))
	router.Use(customMiddleware.CORS(cfg))
	router.Use(customMiddleware.Metrics(m))

	// 超时中间件（Vercel函数有时间限制）
	router.Use(middleware.Timeout(25 * time.Second))
	router.Use(middleware.Compress(5, "application/json"))

	if cfg.IsDevelopment() {
		router.Use(middleware.Heartbeat("/ping"))
	}

	router.Use(customMiddleware.MaxBodySize(cfg.MaxBodyBytes))
	router.Use(customMiddleware.WriteAuth(cfg, utils.NewJWTService(cfg.JWTSecret)))
}

// setupRoutes 设置所有路由
func setupRoutes(router *chi.Mux, cfg *config.Config, db database.DatabaseInterface, m *metrics.Metrics, log zerolog.Logger, uploader *storage.LocalUploader) {
	healthHandler := handlers.NewHealthHandler(cfg, db)
	contentHandler := handlers.NewContentHandler(content.NewService(db, m, log, cfg.SystemAuthorID))
	tagsHandler := handlers.NewTagsHandler(db)
	categoriesHandler := handlers.NewCategoriesHandler(db)
	placesHandler := handlers.NewPlacesHandler(db)
	subspacesHandler := handlers.NewSubspacesHandler(taxonomy.NewSubspaceService(db, log))
	spacesHandler := handlers.NewSpacesHandler(db)
	uploadsHandler := handlers.NewUploadsHandler(uploader, m)

	// 健康检查端点
	router.Get("/", healthHandler.HealthCheck)
	router.Method(http.MethodGet, "/metrics", m.Handler())
	router.Method(http.MethodGet, storage.PublicPrefix+"*", uploader.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.HealthCheck)
		r.Post("/uploads", uploadsHandler.Upload)

		// JSON 请求体的资源路由
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.ContentTypeJSON)

			r.Route("/content", func(r chi.Router) {
				r.Get("/", contentHandler.List)
				r.Post("/", contentHandler.Create)
				r.Get("/{id}", contentHandler.Get)
				r.Put("/{id}", contentHandler.Update)
				r.Patch("/{id}", contentHandler.Update)
				r.Delete("/{id}", contentHandler.Delete)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Get("/", tagsHandler.List)
				r.Post("/", tagsHandler.Create)
				r.Get("/{id}", tagsHandler.Get)
				r.Put("/{id}", tagsHandler.Update)
				r.Delete("/{id}", tagsHandler.Delete)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categoriesHandler.List)
				r.Post("/", categoriesHandler.Create)
				r.Get("/{id}", categoriesHandler.Get)
				r.Put("/{id}", categoriesHandler.Update)
				r.Delete("/{id}", categoriesHandler.Delete)
			})

			r.Route("/places", func(r chi.Router) {
				r.Get("/", placesHandler.List)
				r.Post("/", placesHandler.Create)
				r.Get("/{id}", placesHandler.Get)
				r.Put("/{id}", placesHandler.Update)
				r.Delete("/{id}", placesHandler.Delete)
			})

			r.Route("/subspaces", func(r chi.Router) {
				r.Get("/", subspacesHandler.List)
				r.Post("/", subspacesHandler.Create)
				r.Get("/{id}", subspacesHandler.Get)
				r.Put("/{id}", subspacesHandler.Update)
				r.Delete("/{id}", subspacesHandler.Delete)
			})

			// Space 矩阵只读
			r.Route("/spaces", func(r chi.Router) {
				r.Get("/", spacesHandler.List)
				r.Get("/business-keys", spacesHandler.BusinessKeys)
				r.Get("/languages", spacesHandler.Languages)
				r.Get("/resolve", spacesHandler.Resolve)
			})
		})
	})

	// 404处理
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteNotFoundResponse(w, fmt.Sprintf("Route not found: %s %s", r.Method, r.URL.Path))
	})

	// 405处理
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorResponseWithCode(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			fmt.Sprintf("Method %s not allowed for %s", r.Method, r.URL.Path))
	})
}
