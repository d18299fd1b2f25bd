package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver       string
	DBSource       string
	Port           string
	FrontendOrigin string
	OpenAIKey      string
	OpenAIModel    string
	OpenAIBaseURL  string
	SeedFoods      bool
}

func LoadConfig() *Config {
	// .env is optional; real env vars win either way
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: loading .env: %v", err)
	}

	return &Config{
		DBDriver:       getEnv("DB_DRIVER", "sqlite"),
		DBSource:       getEnv("DB_SOURCE", "calorie_assistant.db"),
		Port:           getEnv("PORT", "4000"),
		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		SeedFoods:      getBool("SEED_FOODS", false),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("config: %s=%q is not a bool, using %v", key, v, fallback)
		return fallback
	}
	return b
}
