// Package server exposes a warehouse Store over a JSON HTTP API.
//
// Requests are served one at a time: the Store is single writer, every
// handler touching it runs under the server lock. Destructive operations
// answer with a plan token; nothing changes until the token is committed.
package server

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/etnz/warehouse"
	"github.com/etnz/warehouse/agent"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
)

// Prefix is the path of every API route.
const Prefix = "/api/v1"

// Config holds the server settings.
type Config struct {
	Currency string         // currency of item prices, DefaultCurrency when empty
	Location *time.Location // time zone of days, time.Local when nil
	Analyst  *agent.Analyst // nil disables the AI summary
	Timeout  time.Duration  // limit of an AI summary request
}

// Server serves the API.
type Server struct {
	mu    sync.Mutex
	store *warehouse.Store
	plans map[string]warehouse.Plan
	cfg   Config
	app   *fiber.App
}

var errUnknownPlan = errors.New("unknown or expired plan token")

// New returns a server on store.
func New(store *warehouse.Store, cfg Config) *Server {
	if cfg.Currency == "" {
		cfg.Currency = warehouse.DefaultCurrency
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Minute
	}
	s := &Server{
		store: store,
		plans: make(map[string]warehouse.Plan),
		cfg:   cfg,
	}
	s.app = fiber.New(fiber.Config{
		AppName:      "whs",
		ErrorHandler: errorHandler,
		// held plans and the store keep strings from requests
		Immutable: true,
	})
	s.app.Use(recover.New())
	s.routes()
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	log.Printf("serving the warehouse API on %s%s", addr, Prefix)
	return s.app.Listen(addr)
}

// Shutdown stops serving, waiting for the requests in flight.
func (s *Server) Shutdown(ctx context.Context) error { return s.app.ShutdownWithContext(ctx) }

func (s *Server) routes() {
	api := s.app.Group(Prefix)

	api.Get("/items", s.locked(s.listItems))
	api.Post("/items", s.locked(s.createItem))
	api.Get("/items/:id", s.locked(s.getItem))
	api.Put("/items/:id", s.locked(s.updateItem))
	api.Delete("/items/:id", s.locked(s.deleteItem))

	api.Get("/partners", s.locked(s.listPartners))
	api.Post("/partners", s.locked(s.createPartner))
	api.Put("/partners/:id", s.locked(s.updatePartner))
	api.Delete("/partners/:id", s.locked(s.deletePartner))

	api.Get("/assets", s.locked(s.listAssets))
	api.Post("/assets", s.locked(s.registerAsset))
	api.Delete("/assets/:id", s.locked(s.deleteAsset))

	api.Post("/transactions", s.locked(s.postTransaction))
	api.Get("/logs", s.locked(s.listLogs))
	api.Get("/reports/daily/:date", s.locked(s.dailyReport))
	api.Get("/reports/inventory", s.locked(s.inventoryReport))
	api.Get("/stats", s.locked(s.stats))
	api.Get("/query", s.locked(s.query))

	api.Get("/export", s.locked(s.export))
	api.Post("/import", s.locked(s.importSnapshot))
	api.Post("/plans/:token/commit", s.locked(s.commitPlan))
	api.Delete("/plans/:token", s.locked(s.cancelPlan))

	// The summary holds the lock only while copying the inventory.
	api.Post("/summary", s.summary)
}

// locked serializes h with every other request touching the store.
func (s *Server) locked(h fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return h(c)
	}
}

// hold keeps a plan until it is committed or cancelled, and answers with its token.
func (s *Server) hold(c *fiber.Ctx, p warehouse.Plan) error {
	token := uuid.NewString()
	s.plans[token] = p
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"message": p.Description(),
		"data": fiber.Map{
			"token": token,
			"kind":  p.Kind,
		},
	})
}

// status maps engine errors to HTTP statuses.
func status(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, warehouse.ErrUnknownItem),
		errors.Is(err, warehouse.ErrUnknownAsset),
		errors.Is(err, warehouse.ErrUnknownPartner),
		errors.Is(err, errUnknownPlan):
		return fiber.StatusNotFound
	case errors.Is(err, warehouse.ErrStalePlan),
		errors.Is(err, warehouse.ErrDuplicateID),
		errors.Is(err, warehouse.ErrDuplicateSignal),
		errors.Is(err, warehouse.ErrAssetNotAvailable),
		errors.Is(err, warehouse.ErrAssetAlreadyAvailable):
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := status(err)
	if code >= fiber.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"success": false, "error": err.Error()})
}
