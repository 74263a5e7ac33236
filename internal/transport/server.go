package transport

import (
	"context"
	"net/http/httptest"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/kuvalkin/classroom-accounts/internal/service/account"
	"github.com/kuvalkin/classroom-accounts/internal/support/config"
	"github.com/kuvalkin/classroom-accounts/internal/support/log"
)

type Services struct {
	Account account.Service
}

type Server struct {
	app     *fiber.App
	address string
}

func NewServer(conf *config.Config, services *Services) *Server {
	app := createAppWithRoutes(services)

	return &Server{app: app, address: conf.RunAddress}
}

func (s *Server) ListenAndServe() error {
	log.Logger().Infow("starting server", "address", s.address)

	return s.app.Listen(s.address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Logger().Info("shutting down server")

	return s.app.ShutdownWithContext(ctx)
}

// NewTestServer serves the app through net/http so tests can use a real client.
func (s *Server) NewTestServer() *httptest.Server {
	return httptest.NewServer(adaptor.FiberApp(s.app))
}
