package main

import (
	"fmt"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func setupServer(services *Services) *http.Server {
	mux := http.NewServeMux()

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	registerRoutes(mux, services)
	setupHealthCheck(mux)

	handler := c.Handler(mux)

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", getEnv("PORT", "8080")),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}
}

func registerRoutes(mux *http.ServeMux, services *Services) {
	for prefix, round := range map[string]*Round{
		"/api/live/voting": services.Voting,
		"/api/live/final":  services.Final,
	} {
		round.Control.RegisterRoutes(mux, prefix)
		mux.Handle(prefix+"/stream", round.SSE)
		mux.Handle(prefix+"/ws", round.WS)
	}

	services.Teams.RegisterRoutes(mux)
	services.Quiz.RegisterRoutes(mux)
	services.Votes.RegisterRoutes(mux)
	services.Ratings.RegisterRoutes(mux)
	services.Scoreboard.RegisterRoutes(mux)
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}
