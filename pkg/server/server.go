// Package server is the HTTP backend: the rule-based chat endpoints,
// the external language understanding and image recognition proxies,
// authentication and message history.
package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/linalabs/go-lina/internal/config"
	"github.com/linalabs/go-lina/internal/log"
	"github.com/linalabs/go-lina/pkg/store"
)

// Config holds the backend configuration.
type Config struct {
	// Port the server listens on.
	Port string

	// WitToken enables the Wit.ai proxy when set.
	WitToken string

	// DeepAIKey enables the image recognition proxy when set.
	DeepAIKey string

	// WitBaseURL and DeepAIBaseURL override the service endpoints.
	// Empty uses the public APIs.
	WitBaseURL    string
	DeepAIBaseURL string

	// StaticDir serves the client assets when set.
	StaticDir string
}

// DefaultConfig reads the backend configuration from the environment.
func DefaultConfig() Config {
	return Config{
		Port:      config.ServerPort(),
		WitToken:  config.WitToken(),
		DeepAIKey: config.DeepAIKey(),
		StaticDir: "./static",
	}
}

// Server is the chat backend.
type Server struct {
	app    *fiber.App
	config Config

	responder *Responder
	wit       *WitClient
	deepai    *DeepAIClient

	// queue serializes persistence; nil disables it.
	queue *store.Queue

	// accounts backs login and registration; nil disables auth.
	accounts store.Accounts
}

// New creates the backend server and registers its routes.
func New(cfg Config, queue *store.Queue, accounts store.Accounts) *Server {
	s := &Server{
		config:    cfg,
		responder: NewResponder(),
		wit:       NewWitClient(cfg.WitToken),
		deepai:    NewDeepAIClient(cfg.DeepAIKey),
		queue:     queue,
		accounts:  accounts,
	}
	if cfg.WitBaseURL != "" {
		s.wit.baseURL = cfg.WitBaseURL
	}
	if cfg.DeepAIBaseURL != "" {
		s.deepai.baseURL = cfg.DeepAIBaseURL
	}

	app := fiber.New(fiber.Config{
		AppName:               "go-lina",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	app.Get("/health", s.handleHealth)
	app.Post("/login", s.handleLogin)
	app.Post("/register", s.handleRegister)

	api := app.Group("/api")
	api.Post("/ask", s.handleAsk)
	api.Post("/witai", s.handleWitai)
	api.Post("/recognize", s.handleRecognize)
	api.Get("/messages/:user_id", s.handleMessages)

	s.app = app
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start blocks serving requests.
func (s *Server) Start() error {
	log.Info("backend listening", "port", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown stops the server and drains the persistence queue.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		return err
	}
	if s.queue != nil {
		return s.queue.Stop(ctx)
	}
	return nil
}
