package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	"poolDetails/internal/details"
	"poolDetails/internal/metrics"
)

// Server exposes pool contacts and tooltips over HTTP for a UI layer.
type Server struct {
	app     *fiber.App
	svc     *details.Service
	metrics *metrics.Metrics
	logger  *zap.Logger
}

type healthResponse struct {
	Status string `json:"status"`
	Loaded bool   `json:"loaded"`
	Pools  int    `json:"pools"`
	Error  string `json:"error,omitempty"`
}

// New builds the fiber app and registers its routes.
func New(svc *details.Service, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "Pool Details",
			DisableStartupMessage: true,
		}),
		svc:     svc,
		metrics: m,
		logger:  logger,
	}

	s.app.Get("/health", s.health)
	if m != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	pools := s.app.Group("/pools")
	pools.Get("/", s.listPools)
	pools.Get("/:id", s.getPool)
	pools.Get("/:id/html", s.getPoolHTML)
	pools.Get("/:id/tooltip", s.getPoolTooltip)

	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) health(c *fiber.Ctx) error {
	result, loaded := s.svc.Result()
	resp := healthResponse{Status: "ok", Loaded: loaded, Pools: result.Len()}
	if !loaded {
		resp.Status = "loading"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	if result.Failed() {
		resp.Status = "degraded"
		resp.Error = result.Err().Error()
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

func (s *Server) listPools(c *fiber.Ctx) error {
	return c.JSON(s.svc.PoolIDs())
}

func (s *Server) getPool(c *fiber.Ctx) error {
	info := s.svc.Format(c.Params("id"))
	if info == nil {
		return fiber.NewError(fiber.StatusNotFound, "pool not found")
	}
	return c.JSON(info)
}

func (s *Server) getPoolHTML(c *fiber.Ctx) error {
	body := s.svc.RenderHTML(c.Params("id"), c.QueryBool("skip_quick_links"))
	if body == "" {
		return fiber.NewError(fiber.StatusNotFound, "pool not found")
	}
	c.Type("html", "utf-8")
	return c.SendString(body)
}

func (s *Server) getPoolTooltip(c *fiber.Ctx) error {
	text, ok := s.svc.RenderTooltip(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "pool not found")
	}
	c.Type("txt", "utf-8")
	return c.SendString(text)
}
