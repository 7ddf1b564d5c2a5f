package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tech-arch1tect/accounts/config"
	"github.com/tech-arch1tect/accounts/services/logging"
	"go.uber.org/zap"
)

type Server struct {
	echo   *echo.Echo
	cfg    *config.Config
	logger *logging.Service
}

func New(cfg *config.Config, logger *logging.Service) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	configureTrustedProxies(e, cfg.Server.TrustedProxies, logger)

	e.Use(middleware.Recover())
	e.Use(logging.RequestLogger(logger))

	return &Server{
		echo:   e,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *Server) Address() string {
	return net.JoinHostPort(s.cfg.Server.Host, s.cfg.Server.Port)
}

// Start blocks until the server stops. A clean shutdown returns nil.
func (s *Server) Start() error {
	addr := s.Address()
	s.logRoutes()
	s.logger.Info("starting HTTP server", zap.String("address", addr))

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.echo.Shutdown(ctx)
}

func (s *Server) Get(path string, handler echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.echo.GET(path, handler, m...)
}

func (s *Server) Post(path string, handler echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	s.echo.POST(path, handler, m...)
}

func (s *Server) Group(prefix string, m ...echo.MiddlewareFunc) *echo.Group {
	return s.echo.Group(prefix, m...)
}

func (s *Server) SetErrorHandler(handler echo.HTTPErrorHandler) {
	s.echo.HTTPErrorHandler = handler
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) logRoutes() {
	for _, route := range s.echo.Routes() {
		s.logger.Debug("route registered",
			zap.String("method", route.Method),
			zap.String("path", route.Path),
			zap.String("handler", shortenHandlerName(route.Name)))
	}
}

// configureTrustedProxies only honours X-Forwarded-For from the listed
// proxies. Without any valid entry the peer address is used.
func configureTrustedProxies(e *echo.Echo, proxies []string, logger *logging.Service) {
	var options []echo.TrustOption
	for _, proxy := range proxies {
		proxy = strings.TrimSpace(proxy)
		if proxy == "" {
			continue
		}

		if !strings.Contains(proxy, "/") {
			ip := net.ParseIP(proxy)
			if ip == nil {
				logger.Warn("ignoring invalid trusted proxy", zap.String("proxy", proxy))
				continue
			}
			if ip.To4() != nil {
				proxy += "/32"
			} else {
				proxy += "/128"
			}
		}

		_, network, err := net.ParseCIDR(proxy)
		if err != nil {
			logger.Warn("ignoring invalid trusted proxy", zap.String("proxy", proxy), zap.Error(err))
			continue
		}
		options = append(options, echo.TrustIPRange(network))
	}

	if len(options) == 0 {
		e.IPExtractor = echo.ExtractIPDirect()
		return
	}

	options = append(options,
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	)
	e.IPExtractor = echo.ExtractIPFromXFFHeader(options...)
}

func shortenHandlerName(name string) string {
	if i := strings.Index(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if len(name) > 80 {
		name = name[:77] + "..."
	}
	return name
}
