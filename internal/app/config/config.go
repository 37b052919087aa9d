package config

import (
	"log"
	"os"
)

type Config struct {
	HTTPAddr        string
	DatabaseURL     string
	CORSAllowOrigin string
	StaticDir       string
}

func MustLoad() Config {
	return Config{
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		DatabaseURL:     mustEnv("DATABASE_URL"),
		CORSAllowOrigin: env("CORS_ALLOW_ORIGIN", "*"),
		StaticDir:       env("STATIC_DIR", "web"),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing env %s", k)
	}
	return v
}
