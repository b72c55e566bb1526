package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr     string
	GinMode     string
	Environment string

	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
	JWTSecret         string

	StoreDriver string // "memory" (default) or "mysql"
	MySQLDSN    string

	CORSOrigins []string
}

// LoadEnv reads .env when present, then plain environment variables.
func LoadEnv() Env {
	if err := godotenv.Load(".env"); err == nil {
		log.Println("loaded configuration from .env")
	}

	env := Env{
		AppAddr:           getenv("APP_ADDR", ":8080"),
		GinMode:           strings.TrimSpace(os.Getenv("GIN_MODE")),
		Environment:       getenv("ENV", "development"),
		AdminUsername:     getenv("ADMIN_USERNAME", "admin"),
		AdminPassword:     getenv("ADMIN_PASSWORD", "admin123"),
		AdminPasswordHash: strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH")),
		JWTSecret:         getenv("JWT_SECRET", "super-secret-key-change-me"),
		StoreDriver:       getenv("STORE_DRIVER", "memory"),
		MySQLDSN:          strings.TrimSpace(os.Getenv("MYSQL_DSN")),
	}

	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				env.CORSOrigins = append(env.CORSOrigins, o)
			}
		}
	} else {
		env.CORSOrigins = []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}
	}

	return env
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
