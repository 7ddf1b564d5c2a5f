package logging

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewService(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		service, err := NewService(Config{Level: Info, Format: "json", OutputPath: "stdout"})

		require.NoError(t, err)
		assert.NotNil(t, service.logger)
	})

	t.Run("console format", func(t *testing.T) {
		service, err := NewService(Config{Level: Debug, Format: "console"})

		require.NoError(t, err)
		assert.NotNil(t, service.logger)
	})

	t.Run("file output", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.log")

		service, err := NewService(Config{Level: Warn, Format: "json", OutputPath: logFile})
		require.NoError(t, err)

		service.Warn("written to file")
		require.NoError(t, service.Sync())

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(content), "written to file")
	})
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLogLevel(Debug))
	assert.Equal(t, zapcore.InfoLevel, parseLogLevel(Info))
	assert.Equal(t, zapcore.WarnLevel, parseLogLevel(Warn))
	assert.Equal(t, zapcore.ErrorLevel, parseLogLevel(Error))
	assert.Equal(t, zapcore.InfoLevel, parseLogLevel("bogus"))
}

func TestService_NilSafe(t *testing.T) {
	var service *Service

	assert.NotPanics(t, func() {
		service.Debug("debug")
		service.Info("info")
		service.Warn("warn")
		service.Error("error")
		_ = service.Sync()
	})
	assert.NotNil(t, service.Logger())
	assert.Nil(t, service.Named("child"))
}

func TestService_NamedAndWith(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	service := NewFromZap(zap.New(core))

	service.Named("mail").With(zap.String("component", "dispatcher")).Info("hello")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "mail", entry.LoggerName)
	assert.Equal(t, "dispatcher", entry.ContextMap()["component"])
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewFromZap(zap.New(core))

	e := echo.New()
	e.Use(RequestLogger(logger, "/healthz"))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/missing", func(c echo.Context) error { return c.NoContent(http.StatusNotFound) })
	e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, path := range []string{"/ok", "/missing", "/healthz"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "request", entries[0].Message)
	assert.Equal(t, "client error", entries[1].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
