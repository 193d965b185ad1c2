package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"okcoinweb/internal/api/handlers"
	"okcoinweb/internal/api/middleware"
	"okcoinweb/internal/service"
	"okcoinweb/pkg/utils"
)

// Dependencies содержит все зависимости для API handlers
type Dependencies struct {
	IcebergService service.IcebergServiceInterface
	Logger         *utils.Logger

	APITokenHash string   // bcrypt; пусто - без авторизации
	CORSOrigins  []string // дополнительные origins

	// MetricsHandler по умолчанию promhttp.Handler()
	MetricsHandler http.Handler
}

// SetupRoutes настраивает все HTTP маршруты приложения
//
// Структура маршрутов:
//
// /api/v1/ (Auth)
//
//	└── /iceberg-orders/
//	    ├── GET ?page=N - одна страница истории
//	    └── GET /all?status=S - вся история
//
// /health - проверка живости
// /metrics - Prometheus
//
// Middleware применяется в следующем порядке:
// 1. Recovery (для всех маршрутов)
// 2. Logging (для всех маршрутов)
// 3. CORS (для всех маршрутов)
// 4. Auth (только /api/v1)
func SetupRoutes(deps *Dependencies) *mux.Router {
	logger := deps.Logger
	if logger == nil {
		logger = utils.L()
	}

	router := mux.NewRouter()

	// Глобальные middleware (применяются ко всем маршрутам)
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger))
	router.Use(middleware.CORS(deps.CORSOrigins))

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(deps.APITokenHash, logger))

	if deps.IcebergService != nil {
		icebergHandler := handlers.NewIcebergHandler(deps.IcebergService)
		api.HandleFunc("/iceberg-orders", icebergHandler.GetPage).Methods(http.MethodGet, http.MethodOptions)
		api.HandleFunc("/iceberg-orders/all", icebergHandler.GetAll).Methods(http.MethodGet, http.MethodOptions)
	}

	metrics := deps.MetricsHandler
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	router.Handle("/metrics", metrics).Methods(http.MethodGet)

	// Health check endpoint
	exchange := ""
	if deps.IcebergService != nil {
		exchange = deps.IcebergService.Exchange()
	}
	router.HandleFunc("/health", handlers.Health(exchange)).Methods(http.MethodGet)

	return router
}
