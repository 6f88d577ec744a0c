package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/audiomonk-labs/audiomonk/internal/adapters/audio"
	"github.com/audiomonk-labs/audiomonk/internal/adapters/classifier"
	"github.com/audiomonk-labs/audiomonk/internal/adapters/rest"
	"github.com/audiomonk-labs/audiomonk/internal/adapters/spotify"
	"github.com/audiomonk-labs/audiomonk/internal/adapters/sqlite"
	"github.com/audiomonk-labs/audiomonk/internal/core/services"
	"github.com/audiomonk-labs/audiomonk/internal/worker"
)

func main() {
	// Configuration: .env for local dev, environment wins. Crash early if
	// required config is missing.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN main: could not load .env: %v", err)
	}

	clientID := os.Getenv("SPOTIFY_CLIENT_ID")
	clientSecret := os.Getenv("SPOTIFY_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		log.Fatal("FATAL: SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET environment variables are required")
	}

	// Driven adapters.
	auth := spotify.NewAuthenticator(clientID, clientSecret, "")
	catalog := spotify.NewClient(auth)
	backend := classifier.NewClient(os.Getenv("CLASSIFIER_URL"))
	player := audio.NewPlayer(nil)

	dbPath := os.Getenv("HISTORY_DB")
	if dbPath == "" {
		dbPath = "audiomonk.db"
	}
	history, err := sqlite.NewAdapter(dbPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	defer history.Close()

	// Core services.
	session := services.NewSession(backend, catalog)
	searcher := services.NewSearcher(catalog)
	discover := services.NewDiscover(backend)
	playback := services.NewCoordinator(player)

	pool := worker.NewPool(history, 100)
	pool.Start(2)
	defer pool.Stop()
	session.AttachHistory(history, pool)

	// Driving adapter.
	handler := rest.NewHandler(session, searcher, discover, playback, history)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("------------------------------------------------")
	log.Printf("🎧 AudioMonk API is running on http://localhost:%s", port)
	log.Println("------------------------------------------------")

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
		playback.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
