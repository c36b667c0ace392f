package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr      string `env:"HTTP_ADDR" env-default:":8080"`
	AllowedOrigin string `env:"CORS_ORIGIN" env-default:"http://localhost:3000"`
	JWTSecret     string `env:"JWT_SECRET" env-required:"true"`

	DB struct {
		Host     string `env:"DB_HOST" env-default:"localhost"`
		Port     string `env:"DB_PORT" env-default:"5432"`
		User     string `env:"DB_USER" env-default:"learnify"`
		Password string `env:"DB_PASSWORD"`
		Name     string `env:"DB_NAME" env-default:"learnify"`
		SSLMode  string `env:"DB_SSLMODE" env-default:"disable"`
	}

	RedisAddr string `env:"REDIS_ADDR"` // empty disables caching
}

// Load reads the optional .env file, then the environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, err
			}
		} else {
			log.Printf("Warning: %s not found", envFile)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
