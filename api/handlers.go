package api

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	jwtmiddleware "github.com/tech-arch1tect/accounts/middleware/jwt"
	"github.com/tech-arch1tect/accounts/services/account"
	"github.com/tech-arch1tect/accounts/services/auth"
	"github.com/tech-arch1tect/accounts/services/jwt"
	"github.com/tech-arch1tect/accounts/services/logging"
	"github.com/tech-arch1tect/accounts/services/verification"
	"go.uber.org/zap"
)

const noActiveAccountMessage = "No active account found with the given credentials"

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (r *RegisterRequest) validate(policy *auth.Policy) error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, required, maxLength(maxEmailLength), emailAddress),
		validation.Field(&r.Name, required, maxLength(maxNameLength)),
		validation.Field(&r.Password, required, passwordPolicy(policy, &r.Name, &r.Email)),
	)
}

type VerifyEmailRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (r *VerifyEmailRequest) validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token, required),
		validation.Field(&r.Password, required),
	)
}

type ResendVerificationRequest struct {
	Email string `json:"email"`
}

func (r *ResendVerificationRequest) validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, required, maxLength(maxEmailLength), emailAddress),
	)
}

type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *TokenRequest) validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, required),
		validation.Field(&r.Password, required),
	)
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

func (r *RefreshRequest) validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Refresh, required),
	)
}

type AccessTokenResponse struct {
	Access string `json:"access"`
}

type ProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
}

type EmptyResponse struct{}

type Handler struct {
	engine        *verification.Engine
	authenticator *auth.Authenticator
	tokens        *jwt.Service
	policy        *auth.Policy
	repo          account.Repository
	logger        *logging.Service
}

func NewHandler(engine *verification.Engine, authenticator *auth.Authenticator, tokens *jwt.Service, policy *auth.Policy, repo account.Repository, logger *logging.Service) *Handler {
	return &Handler{
		engine:        engine,
		authenticator: authenticator,
		tokens:        tokens,
		policy:        policy,
		repo:          repo,
		logger:        logger,
	}
}

// bind decodes the request body into req. Malformed bodies are reported as a
// non-field error.
func (h *Handler) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		h.logger.Debug("failed to parse request body", zap.Error(err), zap.String("path", c.Path()))
		return NewFieldError(NonFieldErrorsKey, CodeParseError, "Malformed request body.")
	}
	return nil
}

func (h *Handler) CreateUser(c echo.Context) error {
	var req RegisterRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := toFieldErrors(req.validate(h.policy)); err != nil {
		return err
	}

	result, err := h.engine.Register(c.Request().Context(), verification.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) VerifyEmail(c echo.Context) error {
	var req VerifyEmailRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := toFieldErrors(req.validate()); err != nil {
		return err
	}

	err := h.engine.Verify(c.Request().Context(), req.Token, req.Password)
	switch {
	case errors.Is(err, verification.ErrInvalidToken):
		return NewFieldError("token", CodeInvalidToken, "The provided token does not exist or has expired.")
	case errors.Is(err, verification.ErrInvalidPassword):
		return NewFieldError("password", CodeInvalidPassword, "The provided password does not match the owner of the email.")
	case err != nil:
		return err
	}

	return c.JSON(http.StatusOK, EmptyResponse{})
}

func (h *Handler) ResendVerification(c echo.Context) error {
	var req ResendVerificationRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := toFieldErrors(req.validate()); err != nil {
		return err
	}

	if err := h.engine.Resend(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, EmptyResponse{})
}

func (h *Handler) ObtainToken(c echo.Context) error {
	var req TokenRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := toFieldErrors(req.validate()); err != nil {
		return err
	}

	user, err := h.authenticator.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrUserInactive) {
			return echo.NewHTTPError(http.StatusUnauthorized, noActiveAccountMessage)
		}
		return err
	}

	pair, err := h.tokens.GenerateTokenPair(user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pair)
}

func (h *Handler) RefreshToken(c echo.Context) error {
	var req RefreshRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := toFieldErrors(req.validate()); err != nil {
		return err
	}

	access, err := h.tokens.Refresh(req.Refresh)
	if err != nil {
		if isTokenError(err) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Token is invalid or expired")
		}
		return err
	}

	return c.JSON(http.StatusOK, AccessTokenResponse{Access: access})
}

func (h *Handler) CurrentUser(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.authenticator.GetUserByID(ctx, jwtmiddleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
		}
		return err
	}
	if !user.IsActive {
		return echo.NewHTTPError(http.StatusUnauthorized, "User is inactive")
	}

	profile := ProfileResponse{
		ID:          user.ID,
		Name:        user.Name,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
	}
	if user.PrimaryEmailID != nil {
		email, err := h.repo.FindEmailByID(ctx, *user.PrimaryEmailID)
		switch {
		case err == nil:
			profile.Email = email.Address
		case !errors.Is(err, account.ErrNotFound):
			return err
		}
	}

	return c.JSON(http.StatusOK, profile)
}

func isTokenError(err error) bool {
	return errors.Is(err, jwt.ErrInvalidToken) ||
		errors.Is(err, jwt.ErrExpiredToken) ||
		errors.Is(err, jwt.ErrMalformedToken) ||
		errors.Is(err, jwt.ErrInvalidSignature) ||
		errors.Is(err, jwt.ErrWrongTokenType)
}
