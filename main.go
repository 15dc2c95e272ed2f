package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Jtharmon/portfolio-latest/internal/auth"
	"github.com/Jtharmon/portfolio-latest/internal/config"
	"github.com/Jtharmon/portfolio-latest/internal/db"
	"github.com/Jtharmon/portfolio-latest/internal/handlers"
	appmiddleware "github.com/Jtharmon/portfolio-latest/internal/middleware"
)

func main() {
	cfg := config.Load()
	initLogging(cfg)

	ctx := context.Background()
	store, err := db.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema setup failed")
	}
	if err := seedSecret(ctx, store, cfg.BlogSecret); err != nil {
		log.Fatal().Err(err).Msg("secret setup failed")
	}

	gate := auth.NewGate(store, cfg.JWTSecret)
	router := newRouter(cfg, store, gate)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}

func initLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// seedSecret stores a bcrypt hash of the configured secret on first run.
// An existing row wins so a deployed secret is never silently replaced.
func seedSecret(ctx context.Context, store *db.Store, secret string) error {
	stored, err := store.GetConfigValue(ctx, auth.ConfigKey)
	if err != nil {
		return err
	}
	if stored != "" {
		return nil
	}
	if secret == "" {
		log.Warn().Msg("no blog secret configured; all mutations will be rejected")
		return nil
	}
	hash, err := auth.HashSecret(secret)
	if err != nil {
		return err
	}
	if err := store.SetConfigValue(ctx, auth.ConfigKey, hash); err != nil {
		return err
	}
	log.Info().Msg("blog secret seeded")
	return nil
}

func newRouter(cfg config.Config, store *db.Store, gate *auth.Gate) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(appmiddleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler)

	healthHandler := handlers.NewHealthHandler(store)
	postsHandler := handlers.NewPostsHandler(store, gate)
	projectsHandler := handlers.NewProjectsHandler(store, gate)
	metaHandler := handlers.NewMetaHandler(store)
	secretHandler := handlers.NewSecretHandler(gate)
	uploadHandler := handlers.NewUploadHandler(gate, cfg.UploadDir, cfg.MaxUploadBytes)

	r.Get("/health", healthHandler.Health)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	r.Route("/api", func(r chi.Router) {
		// Lenient limiter for public reads, strict for secret guessing.
		publicLimiter := appmiddleware.NewRateLimiter(60, time.Minute)
		secretLimiter := appmiddleware.NewRateLimiter(10, time.Minute)

		r.With(publicLimiter.Limit).Get("/posts", postsHandler.List)
		r.Get("/posts/{id}", postsHandler.Get)
		r.Post("/posts", postsHandler.Create)
		r.Put("/posts/{id}", postsHandler.Update)
		r.Delete("/posts/{id}", postsHandler.Delete)

		r.With(publicLimiter.Limit).Get("/projects", projectsHandler.List)
		r.Get("/projects/{id}", projectsHandler.Get)
		r.Post("/projects", projectsHandler.Create)
		r.Put("/projects/{id}", projectsHandler.Update)
		r.Delete("/projects/{id}", projectsHandler.Delete)

		r.With(publicLimiter.Limit).Get("/categories", metaHandler.Categories)
		r.With(publicLimiter.Limit).Get("/tags", metaHandler.Tags)

		r.With(secretLimiter.Limit).Post("/verify-secret", secretHandler.Verify)
		r.Post("/upload", uploadHandler.Upload)
	})

	return r
}
