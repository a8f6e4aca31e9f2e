package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush/snapfeed/internal/auth"
	"github.com/ayush/snapfeed/internal/config"
	"github.com/ayush/snapfeed/internal/httpx"
	"github.com/ayush/snapfeed/internal/middleware"
	"github.com/ayush/snapfeed/internal/posts"
	"github.com/ayush/snapfeed/internal/store"
	"github.com/ayush/snapfeed/internal/users"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pgPool.Close()
	pgStore := store.NewPostgresStore(pgPool)
	if err := pgStore.Migrate(ctx); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

	// ── MinIO ────────────────────────────────────────────────
	minioStore, err := store.NewMinioStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, cfg.MinioPublicURL,
	)
	if err != nil {
		log.Fatalf("minio connect: %v", err)
	}

	// ── Rate limiter (optional) ──────────────────────────────
	var limiter middleware.Limiter
	if cfg.RedisAddr != "" {
		rl, err := middleware.NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, 20, time.Minute)
		if err != nil {
			log.Printf("redis unavailable, rate limiting disabled: %v", err)
		} else {
			defer rl.Close()
			limiter = rl
		}
	}

	// ── Handlers ─────────────────────────────────────────────
	tokens := auth.NewTokenManager(cfg.JWTSecret)
	authHandler := auth.NewHandler(pgStore, tokens, cfg.PasswordPepper)
	usersHandler := users.NewHandler(pgStore, pgStore, minioStore)
	postsHandler := posts.NewHandler(pgStore, minioStore)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Public
	r.With(middleware.RateLimit(limiter)).Post("/users", authHandler.Register)
	r.With(middleware.RateLimit(limiter)).Post("/login", authHandler.Login)
	r.Get("/users/{id}", usersHandler.Get)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens))
		r.Get("/users", usersHandler.List)
		r.Get("/posts", postsHandler.List)
		r.Get("/my-posts", postsHandler.ListMine)
		r.Post("/posts", postsHandler.Create)
		r.Delete("/posts/{id}", postsHandler.Delete)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: 2 * time.Minute,
	}

	go func() {
		log.Printf("Backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
