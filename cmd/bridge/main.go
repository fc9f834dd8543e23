package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/booksbridge/books-bridge/internal/auth/freshbooks"
	"github.com/booksbridge/books-bridge/internal/auth/token"
	"github.com/booksbridge/books-bridge/internal/config"
	"github.com/booksbridge/books-bridge/internal/db"
	"github.com/booksbridge/books-bridge/internal/history"
	"github.com/booksbridge/books-bridge/internal/logging"
	"github.com/booksbridge/books-bridge/internal/server/handlers"
	"github.com/booksbridge/books-bridge/internal/upstream"
	"github.com/booksbridge/books-bridge/internal/version"
)

func main() {
	configPath := os.Getenv("BRIDGE_CONFIG")
	if configPath == "" {
		configPath = "bridge.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		log.Printf("⚠️ FreshBooks client credentials not configured; /auth/login will fail until they are set")
	}

	database, err := db.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	store := token.NewStore(database)
	coordinator := token.NewCoordinator(store, freshbooks.TokenURL(cfg), cfg.ClientID, cfg.ClientSecret)
	engine := upstream.NewEngine(upstream.NewClient(), coordinator, cfg.APIBaseURL)
	recorder := history.NewRecorder(database)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(logging.RequestID)

	r.Get("/", handlers.DashboardHandler())

	// OAuth flow
	r.Get("/auth/login", freshbooks.HandleLogin(cfg))
	r.Get("/auth/callback", freshbooks.HandleCallback(cfg, store))

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", handlers.StatusHandler(store))
		r.Get("/resources", handlers.ResourcesHandler())
		r.Get("/history", handlers.HistoryHandler(recorder))
		r.Post("/session/reset", handlers.SessionResetHandler(store))
		r.Get("/export/{resource}", handlers.ExportHandler(engine, recorder))
		r.Get("/export/{resource}/csv", handlers.ExportCSVHandler(engine, recorder))
	})

	addr := cfg.Addr()
	log.Printf("🚀 Books Bridge %s starting on http://%s", version.Version, addr)
	log.Printf("📊 Dashboard: http://%s", addr)
	log.Printf("🔑 Connect FreshBooks: http://%s/auth/login", addr)

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
