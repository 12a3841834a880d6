package http

import (
	"net/http"

	_ "github.com/ecosort-tech/go-backend/docs" // Импорт сгенерированных файлов
	"github.com/ecosort-tech/go-backend/internal/usecase"
	"github.com/ecosort-tech/go-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// Deps — всё, что нужно маршрутам.
type Deps struct {
	PredictionUC  usecase.PredictionUC
	Verifier      TokenVerifier
	Gatherer      prometheus.Gatherer
	MaxUploadSize int64
	SwaggerURL    string
}

func (r *Router) Init(deps Deps) {
	r.router.Use(middleware.RequestID)
	r.router.Use(accessLog(r.logger))
	r.router.Use(recoverer(r.logger))

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(deps.SwaggerURL), // ссылка на JSON
	))
	r.router.Get("/healthz", healthz)
	r.router.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))

	predHandler := NewPredictionHandler(deps.PredictionUC, deps.MaxUploadSize, r.logger)
	registerPredictionRoutes(r.router, predHandler, requireAuth(deps.Verifier, r.logger))
}

func registerPredictionRoutes(router chi.Router, predHandler *PredictionHandler, auth func(next http.Handler) http.Handler) {
	router.Route("/predict", func(pr chi.Router) {
		pr.Use(auth)
		pr.Post("/", predHandler.predict)
		pr.Get("/collections", predHandler.listCollections)
		pr.Get("/{id}", predHandler.getRecord)
	})

	router.Route("/users", func(ur chi.Router) {
		ur.Use(auth)
		ur.Get("/{userId}/predictions", predHandler.listUserPredictions)
	})
}
