package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig      `envPrefix:"APP_"`
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Log      LogConfig      `envPrefix:"LOG_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
	JWT      JWTConfig      `envPrefix:"JWT_"`
	Mail     MailConfig     `envPrefix:"MAIL_"`
	Admin    AdminConfig    `envPrefix:"ADMIN_"`
}

type AppConfig struct {
	Name             string `env:"NAME" envDefault:"Accounts"`
	URL              string `env:"URL" envDefault:"http://localhost:8080"`
	VerificationPath string `env:"VERIFICATION_PATH" envDefault:"/verify-email"`
	LoginPath        string `env:"LOGIN_PATH" envDefault:"/login"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"localhost"`
	// addresses or CIDRs whose X-Forwarded-For header is honoured
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"accounts.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type AuthConfig struct {
	MinLength      int  `env:"MIN_LENGTH" envDefault:"8"`
	MaxLength      int  `env:"MAX_LENGTH" envDefault:"72"`
	RequireUpper   bool `env:"REQUIRE_UPPER" envDefault:"true"`
	RequireLower   bool `env:"REQUIRE_LOWER" envDefault:"true"`
	RequireNumber  bool `env:"REQUIRE_NUMBER" envDefault:"true"`
	RequireSpecial bool `env:"REQUIRE_SPECIAL" envDefault:"false"`
	RejectCommon   bool `env:"REJECT_COMMON" envDefault:"true"`
	RejectSimilar  bool `env:"REJECT_SIMILAR" envDefault:"true"`
	BcryptCost     int  `env:"BCRYPT_COST" envDefault:"10"`

	EmailVerificationTokenLength     int           `env:"EMAIL_VERIFICATION_TOKEN_LENGTH" envDefault:"32"`
	EmailVerificationExpiry          time.Duration `env:"EMAIL_VERIFICATION_EXPIRY" envDefault:"0s"`
	EmailVerificationPurgeOnVerify   bool          `env:"EMAIL_VERIFICATION_PURGE_ON_VERIFY" envDefault:"false"`
	EmailVerificationCleanupInterval time.Duration `env:"EMAIL_VERIFICATION_CLEANUP_INTERVAL" envDefault:"1h"`
}

type JWTConfig struct {
	SecretKey     string        `env:"SECRET_KEY"`
	Issuer        string        `env:"ISSUER" envDefault:"accounts"`
	AccessExpiry  time.Duration `env:"ACCESS_EXPIRY" envDefault:"5m"`
	RefreshExpiry time.Duration `env:"REFRESH_EXPIRY" envDefault:"24h"`
}

type MailConfig struct {
	Enabled      bool   `env:"ENABLED" envDefault:"false"`
	Host         string `env:"HOST" envDefault:"localhost"`
	Port         int    `env:"PORT" envDefault:"587"`
	Username     string `env:"USERNAME"`
	Password     string `env:"PASSWORD"`
	Encryption   string `env:"ENCRYPTION" envDefault:"starttls"`
	FromAddress  string `env:"FROM_ADDRESS" envDefault:"noreply@localhost"`
	FromName     string `env:"FROM_NAME"`
	TemplatesDir string `env:"TEMPLATES_DIR"`
	QueueSize    int    `env:"QUEUE_SIZE" envDefault:"100"`
	Workers      int    `env:"WORKERS" envDefault:"2"`
}

type AdminConfig struct {
	Email    string `env:"EMAIL"`
	Password string `env:"PASSWORD"`
}

func LoadConfig(cfg any) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	return env.Parse(cfg)
}
