package api

import (
	"github.com/tech-arch1tect/accounts/config"
	"github.com/tech-arch1tect/accounts/openapi"
	"github.com/tech-arch1tect/accounts/server"
	"github.com/tech-arch1tect/accounts/services/account"
	"github.com/tech-arch1tect/accounts/services/auth"
	"github.com/tech-arch1tect/accounts/services/jwt"
	"github.com/tech-arch1tect/accounts/services/logging"
	"github.com/tech-arch1tect/accounts/services/verification"
	"go.uber.org/fx"
)

const Version = "1.0.0"

func ProvideHandler(engine *verification.Engine, authenticator *auth.Authenticator, tokens *jwt.Service, policy *auth.Policy, repo account.Repository, logger *logging.Service) *Handler {
	return NewHandler(engine, authenticator, tokens, policy, repo, logger.Named("api"))
}

func ProvideDocument(cfg *config.Config) *openapi.Document {
	return NewDocument(cfg.App.Name, Version).Server(cfg.App.URL, cfg.App.Name)
}

func Mount(srv *server.Server, h *Handler, doc *openapi.Document, logger *logging.Service) {
	srv.SetErrorHandler(ErrorHandler(logger.Named("api")))
	h.RegisterRoutes(srv.Echo(), doc)
}

var Module = fx.Options(
	fx.Provide(ProvideHandler),
	fx.Provide(ProvideDocument),
	fx.Invoke(Mount),
)
