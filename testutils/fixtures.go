package testutils

import (
	"time"

	"github.com/tech-arch1tect/accounts/config"
	"golang.org/x/crypto/bcrypt"
)

const TestJWTSecret = "k9Zq2vLx7Pw4Rt8Yb3Nm6Hc1Js5Df0Ga"

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:             "Test App",
			URL:              "http://localhost:8080",
			VerificationPath: "/verify-email",
			LoginPath:        "/login",
		},
		Server: config.ServerConfig{
			Host: "localhost",
			Port: "0",
		},
		Log: config.LogConfig{
			Level:  "debug",
			Format: "console",
			Output: "stdout",
		},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			DSN:         ":memory:",
			AutoMigrate: true,
		},
		Auth: config.AuthConfig{
			MinLength:                        8,
			MaxLength:                        72,
			RequireUpper:                     true,
			RequireLower:                     true,
			RequireNumber:                    true,
			RequireSpecial:                   false,
			RejectCommon:                     true,
			RejectSimilar:                    true,
			BcryptCost:                       bcrypt.MinCost,
			EmailVerificationTokenLength:     32,
			EmailVerificationCleanupInterval: time.Hour,
		},
		JWT: config.JWTConfig{
			SecretKey:     TestJWTSecret,
			Issuer:        "test-issuer",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 24 * time.Hour,
		},
		Mail: config.MailConfig{
			Enabled:     false,
			Host:        "localhost",
			Port:        1025,
			Encryption:  "none",
			FromAddress: "noreply@example.com",
			FromName:    "Test App",
			QueueSize:   10,
			Workers:     1,
		},
	}
}

var TestPasswords = struct {
	Valid       string
	Other       string
	TooShort    string
	NoUpper     string
	NoLower     string
	NoNumber    string
	WithSpecial string
	Common      string
}{
	Valid:       "Tr1cky-Wombat",
	Other:       "Qu1etHarbour",
	TooShort:    "Pa5s",
	NoUpper:     "tr1ckywombat",
	NoLower:     "TR1CKYWOMBAT",
	NoNumber:    "TrickyWombat",
	WithSpecial: "Tr1cky-Wombat!",
	Common:      "Password1",
}

var TestUsers = struct {
	Alice struct {
		Name     string
		Email    string
		Password string
	}
	Bob struct {
		Name     string
		Email    string
		Password string
	}
}{
	Alice: struct {
		Name     string
		Email    string
		Password string
	}{
		Name:     "Alice",
		Email:    "Alice@Example.COM",
		Password: "Tr1cky-Wombat",
	},
	Bob: struct {
		Name     string
		Email    string
		Password string
	}{
		Name:     "Bob",
		Email:    "bob@example.org",
		Password: "Qu1etHarbour",
	},
}
