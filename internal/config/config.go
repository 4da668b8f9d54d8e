package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Security SecurityConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Location decides what "today" means for the period filters.
	Location *time.Location
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	SQLitePath      string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
	Seed            bool
}

type SessionConfig struct {
	Duration     time.Duration
	CookieName   string
	CookieSecure bool
	PrivateKey   *rsa.PrivateKey
	PublicKey    *rsa.PublicKey
	Issuer       string
	// FlashSecret authenticates the flash message cookie.
	FlashSecret []byte
}

type SecurityConfig struct {
	BCryptCost          int
	RateLimitPerSecond  int
	RateLimitBurst      int
	MaxFailedAttempts   int
	PasswordMinLength   int
	RequireUppercase    bool
	RequireLowercase    bool
	RequireNumbers      bool
	RequireSpecialChars bool
	CSRFEnabled         bool
}

// AdminConfig describes the bootstrap administrator. Nothing is seeded when
// the password is empty.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			Environment:  getEnv("APP_ENV", "development"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", DriverPostgres),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "tracker_user"),
			Password:        getEnv("DB_PASSWORD", "tracker_password"),
			Name:            getEnv("DB_NAME", "tracker_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			SQLitePath:      getEnv("SQLITE_PATH", "tracker.db"),
			MaxConnections:  getIntEnv("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			AutoMigrate:     getBoolEnv("AUTO_MIGRATE", false),
			Seed:            getBoolEnv("SEED_DATABASE", false),
		},
		Session: SessionConfig{
			Duration:     getDurationEnv("SESSION_DURATION", 14*24*time.Hour),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "tracker_session"),
			CookieSecure: getBoolEnv("SESSION_COOKIE_SECURE", false),
			Issuer:       getEnv("JWT_ISSUER", "finance-tracker"),
		},
		Security: SecurityConfig{
			BCryptCost:          getIntEnv("BCRYPT_COST", 12),
			RateLimitPerSecond:  getIntEnv("RATE_LIMIT_PER_SECOND", 5),
			RateLimitBurst:      getIntEnv("RATE_LIMIT_BURST", 10),
			MaxFailedAttempts:   getIntEnv("MAX_FAILED_ATTEMPTS", 5),
			PasswordMinLength:   getIntEnv("PASSWORD_MIN_LENGTH", 8),
			RequireUppercase:    getBoolEnv("PASSWORD_REQUIRE_UPPERCASE", false),
			RequireLowercase:    getBoolEnv("PASSWORD_REQUIRE_LOWERCASE", false),
			RequireNumbers:      getBoolEnv("PASSWORD_REQUIRE_NUMBERS", false),
			RequireSpecialChars: getBoolEnv("PASSWORD_REQUIRE_SPECIAL", false),
			CSRFEnabled:         getBoolEnv("CSRF_ENABLED", true),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Email:    getEnv("ADMIN_EMAIL", "admin@example.com"),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	location, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	config.Server.Location = location

	if err := config.validate(); err != nil {
		return nil, err
	}

	config.Session.PrivateKey, config.Session.PublicKey, err = config.loadJWTKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to load RSA keys: %w", err)
	}

	config.Session.FlashSecret, err = config.loadFlashSecret()
	if err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Session.Duration <= 0 {
		return errors.New("SESSION_DURATION must be positive")
	}
	if c.IsProduction() && !c.Session.CookieSecure {
		slog.Warn("SESSION_COOKIE_SECURE is disabled in production")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// URL returns the connection string in the form golang-migrate expects.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) IsTesting() bool {
	return c.Server.Environment == "testing"
}

// Address is the host:port pair the HTTP server binds to.
func (c *Config) Address() string {
	return c.Server.Host + ":" + c.Server.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// loadJWTKeys prefers JWT_PRIVATE_KEY/JWT_PUBLIC_KEY (base64 PEM). Production
// refuses to start without them; other environments get a fresh keypair, so
// sessions do not survive a restart.
func (c *Config) loadJWTKeys() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKeyB64 := os.Getenv("JWT_PRIVATE_KEY")
	publicKeyB64 := os.Getenv("JWT_PUBLIC_KEY")

	if privateKeyB64 != "" && publicKeyB64 != "" {
		slog.Info("loading session signing keys from environment")
		return loadKeysFromEnvVars(privateKeyB64, publicKeyB64)
	}

	if c.IsProduction() {
		return nil, nil, errors.New("JWT_PRIVATE_KEY and JWT_PUBLIC_KEY must be set in production")
	}

	slog.Info("generating ephemeral session signing keys", "environment", c.Server.Environment)
	return GenerateRSAKeyPair()
}

// loadFlashSecret reads SESSION_SECRET. Like the signing keys it is only
// optional outside production.
func (c *Config) loadFlashSecret() ([]byte, error) {
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		if len(secret) < 32 {
			return nil, errors.New("SESSION_SECRET must be at least 32 characters")
		}
		return []byte(secret), nil
	}

	if c.IsProduction() {
		return nil, errors.New("SESSION_SECRET must be set in production")
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}
	return secret, nil
}

func loadKeysFromEnvVars(privateKeyB64, publicKeyB64 string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKeyBytes, err := base64.StdEncoding.DecodeString(privateKeyB64)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode JWT_PRIVATE_KEY: %w", err)
	}

	publicKeyBytes, err := base64.StdEncoding.DecodeString(publicKeyB64)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode JWT_PUBLIC_KEY: %w", err)
	}

	privateKey, err := loadRSAPrivateKey(privateKeyBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	publicKey, err := loadRSAPublicKey(publicKeyBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	return privateKey, publicKey, nil
}

// GenerateRSAKeyPair generates a new RSA key pair
func GenerateRSAKeyPair() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}

	return privateKey, &privateKey.PublicKey, nil
}

func loadRSAPrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing the key")
	}

	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err == nil {
		return privateKey, nil
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("not an RSA private key")
	}

	return rsaKey, nil
}

func loadRSAPublicKey(pemData []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing the key")
	}

	publicKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	rsaPublicKey, ok := publicKey.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not an RSA public key")
	}

	return rsaPublicKey, nil
}
