package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	AuthProviderLocal    = "local"
	AuthProviderFirebase = "firebase"
)

type Config struct {
	ProjectID        string
	Region           string
	Port             string
	LogLevel         string
	LogFormat        string
	AuthProvider     string
	JWTSecret        string
	JWTTTL           time.Duration
	ResetTTL         time.Duration
	KMSKeyName       string
	RedisURL         string
	CurrencyCacheTTL time.Duration
	ResendAPIKey     string
	EmailFrom        string
	AppBaseURL       string
	SweepToken       string
	VertexModel      string
}

// New reads the process environment. A .env file in the working directory is
// loaded first when present; variables already set take precedence.
func New() *Config {
	_ = godotenv.Load()

	return &Config{
		ProjectID:        os.Getenv("PROJECTID"),
		Region:           getEnv("REGION", "europe-west1"),
		Port:             getEnv("PORT", "8080"),
		LogLevel:         os.Getenv("LOGLEVEL"),
		LogFormat:        getEnv("LOGFORMAT", "json"),
		AuthProvider:     getAuthProvider(os.Getenv("AUTHPROVIDER")),
		JWTSecret:        os.Getenv("JWTSECRET"),
		JWTTTL:           getEnvAsDuration("JWTTTL", 24*time.Hour),
		ResetTTL:         getEnvAsDuration("RESETTTL", 15*time.Minute),
		KMSKeyName:       os.Getenv("KMSKEYNAME"),
		RedisURL:         os.Getenv("REDISURL"),
		CurrencyCacheTTL: getEnvAsDuration("CURRENCYCACHETTL", 10*time.Minute),
		ResendAPIKey:     os.Getenv("RESENDAPIKEY"),
		EmailFrom:        getEnv("EMAILFROM", "Ledger <noreply@ledger.app>"),
		AppBaseURL:       getEnv("APPBASEURL", "http://localhost:3000"),
		SweepToken:       os.Getenv("SWEEPTOKEN"),
		VertexModel:      os.Getenv("VERTEXMODEL"),
	}
}

// SecretRefs returns pointers to every field that may hold an sm:// reference.
func (c *Config) SecretRefs() []*string {
	return []*string{&c.JWTSecret, &c.ResendAPIKey, &c.SweepToken}
}

func getAuthProvider(provider string) string {
	switch strings.ToLower(provider) {
	case AuthProviderFirebase:
		return AuthProviderFirebase
	default: // "local"
		return AuthProviderLocal
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
