package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

const shutdownTimeout = 5 * time.Second

// NewRouter - mounts the REST routes and, when given, the websocket stream of a game.
func NewRouter(handlers *Handlers, stream http.Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/ping", handlers.Ping)
	r.Get("/location", handlers.GetLocation)
	r.Get("/scores/{size}", handlers.GetScores)

	r.Post("/games", handlers.CreateGame)
	r.Route("/games/{id}", func(r chi.Router) {
		r.Get("/", handlers.GetGame)
		r.Delete("/", handlers.DeleteGame)
		r.Post("/turn", handlers.MakeTurn)
		r.Post("/reset", handlers.ResetGame)

		if stream != nil {
			r.Get("/ws", stream.ServeHTTP)
		}
	})

	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(r)
}

// Start - serves handler until ctx is canceled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}

		return nil
	}
}
