package openapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type signupBody struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password" description:"Plain text password"`
	Note     string `json:"note,omitempty"`
	Internal string `json:"-"`
}

type profile struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Aliases []signupBody
}

func newTestDocument() *Document {
	doc := New("Accounts", "1.0.0").
		Description("test").
		Server("http://localhost:8080", "local").
		Tag("users", "User management").
		BearerAuth("bearer", "JWT access token")

	doc.Route(http.MethodPost, "/users/").
		Summary("Register").
		Tags("users").
		Body(signupBody{}, "Registration payload").
		Response(http.StatusCreated, signupBody{}, "Created").
		Response(http.StatusBadRequest, map[string][]string{}, "Invalid input").
		Build()

	doc.Route(http.MethodGet, "/users/me/").
		Summary("Current user").
		Security("bearer").
		Response(http.StatusOK, profile{}, "Profile").
		Build()

	doc.Route(http.MethodGet, "/items/:id").Build()
	return doc
}

func TestDocumentStructure(t *testing.T) {
	doc := newTestDocument()
	spec := doc.Spec()

	require.NoError(t, doc.Validate(context.Background()))

	users := spec.Paths.Find("/users/")
	require.NotNil(t, users)
	require.NotNil(t, users.Post)
	assert.Equal(t, "Register", users.Post.Summary)
	assert.True(t, users.Post.RequestBody.Value.Required)
	assert.NotNil(t, users.Post.Responses.Value("201"))
	assert.NotNil(t, users.Post.Responses.Value("400"))

	me := spec.Paths.Find("/users/me/")
	require.NotNil(t, me)
	require.NotNil(t, me.Get.Security)
	assert.Len(t, *me.Get.Security, 1)

	item := spec.Paths.Find("/items/{id}")
	require.NotNil(t, item)
	assert.NotNil(t, item.Get.Responses.Value("200"))
}

func TestStructSchemas(t *testing.T) {
	doc := newTestDocument()
	schemas := doc.Spec().Components.Schemas

	body := schemas["signupBody"]
	require.NotNil(t, body)
	assert.Contains(t, body.Value.Properties, "email")
	assert.Contains(t, body.Value.Properties, "note")
	assert.NotContains(t, body.Value.Properties, "Internal")
	assert.ElementsMatch(t, []string{"email", "name", "password"}, body.Value.Required)
	assert.Equal(t, "Plain text password", body.Value.Properties["password"].Value.Description)

	p := schemas["profile"]
	require.NotNil(t, p)
	assert.Equal(t, "uuid", p.Value.Properties["id"].Value.Format)
	aliases := p.Value.Properties["Aliases"].Value
	assert.Equal(t, "#/components/schemas/signupBody", aliases.Items.Ref)
}

func TestEchoPathToOpenAPI(t *testing.T) {
	assert.Equal(t, "/users/{id}/emails/{email}", echoPathToOpenAPI("/users/:id/emails/:email"))
	assert.Equal(t, "/token/", echoPathToOpenAPI("/token/"))
}

func TestHandlers(t *testing.T) {
	doc := newTestDocument()
	e := echo.New()
	e.GET("/openapi.json", doc.JSONHandler())
	e.GET("/openapi.yaml", doc.YAMLHandler())

	t.Run("json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
		assert.Equal(t, "3.0.3", decoded["openapi"])
	})

	t.Run("yaml", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/yaml", rec.Header().Get(echo.HeaderContentType))
		var decoded map[string]any
		require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &decoded))
		info, ok := decoded["info"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Accounts", info["title"])
	})
}
