package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	jwtmiddleware "github.com/tech-arch1tect/accounts/middleware/jwt"
	"github.com/tech-arch1tect/accounts/openapi"
	"github.com/tech-arch1tect/accounts/services/jwt"
	"github.com/tech-arch1tect/accounts/services/verification"
)

const bearerScheme = "bearerAuth"

func (h *Handler) RegisterRoutes(e *echo.Echo, doc *openapi.Document) {
	e.POST("/users/", h.CreateUser)
	e.GET("/users/me/", h.CurrentUser, jwtmiddleware.RequireJWT(h.tokens))
	e.POST("/email-verification/", h.VerifyEmail)
	e.POST("/email-verification/resend/", h.ResendVerification)
	e.POST("/token/", h.ObtainToken)
	e.POST("/token/refresh/", h.RefreshToken)

	e.GET("/openapi.json", doc.JSONHandler())
	e.GET("/openapi.yaml", doc.YAMLHandler())
}

// NewDocument describes every route mounted by RegisterRoutes.
func NewDocument(title, version string) *openapi.Document {
	doc := openapi.New(title, version).
		Description("User registration, email verification and token issuance.").
		Tag("users", "User registration and profile").
		Tag("email-verification", "Email ownership verification").
		Tag("token", "Access and refresh token issuance").
		BearerAuth(bearerScheme, "Access token obtained from /token/")

	doc.Route(http.MethodPost, "/users/").
		Summary("Register a user").
		Description("Always answers 201 for valid input, whether or not the address is already registered.").
		OperationID("createUser").
		Tags("users").
		Body(RegisterRequest{}, "Registration details").
		Response(http.StatusCreated, verification.Registration{}, "Registration accepted").
		Response(http.StatusBadRequest, FieldErrors{}, "Invalid input").
		Build()

	doc.Route(http.MethodGet, "/users/me/").
		Summary("Current user").
		OperationID("currentUser").
		Tags("users").
		Security(bearerScheme).
		Response(http.StatusOK, ProfileResponse{}, "Authenticated user").
		Response(http.StatusUnauthorized, messageResponse{}, "Missing or invalid access token").
		Build()

	doc.Route(http.MethodPost, "/email-verification/").
		Summary("Verify an email address").
		OperationID("verifyEmail").
		Tags("email-verification").
		Body(VerifyEmailRequest{}, "Verification token and the owner's password").
		Response(http.StatusOK, EmptyResponse{}, "Email verified").
		Response(http.StatusBadRequest, FieldErrors{}, "Invalid token or password").
		Build()

	doc.Route(http.MethodPost, "/email-verification/resend/").
		Summary("Resend a verification email").
		OperationID("resendVerification").
		Tags("email-verification").
		Body(ResendVerificationRequest{}, "Address to verify").
		Response(http.StatusAccepted, EmptyResponse{}, "Request accepted").
		Response(http.StatusBadRequest, FieldErrors{}, "Invalid input").
		Build()

	doc.Route(http.MethodPost, "/token/").
		Summary("Obtain a token pair").
		OperationID("obtainToken").
		Tags("token").
		Body(TokenRequest{}, "Login credentials").
		Response(http.StatusOK, jwt.TokenPair{}, "Access and refresh tokens").
		Response(http.StatusBadRequest, FieldErrors{}, "Invalid input").
		Response(http.StatusUnauthorized, messageResponse{}, "Invalid credentials").
		Build()

	doc.Route(http.MethodPost, "/token/refresh/").
		Summary("Refresh an access token").
		OperationID("refreshToken").
		Tags("token").
		Body(RefreshRequest{}, "Refresh token").
		Response(http.StatusOK, AccessTokenResponse{}, "New access token").
		Response(http.StatusBadRequest, FieldErrors{}, "Invalid input").
		Response(http.StatusUnauthorized, messageResponse{}, "Invalid or expired refresh token").
		Build()

	return doc
}
