package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"cv-tailor/internal/config"
	"cv-tailor/internal/middleware"
	tailorHnd "cv-tailor/internal/tailor/handler"
	"cv-tailor/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, fetcher tailorHnd.PostingFetcher) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health)
	r.Get("/sample", tailorHnd.Sample)

	r.Post("/scrape", tailorHnd.Scrape(fetcher, logger))
	r.Post("/cv", tailorHnd.LoadCV(logger))
	r.Post("/optimize", tailorHnd.Optimize(cfg, logger))
	r.Post("/batch", tailorHnd.Batch(cfg, logger))

	return r
}
