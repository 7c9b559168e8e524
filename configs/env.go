package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func LoadEnvFor(v string) (x string) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	err := godotenv.Load(envFile)

	if err != nil {
		log.Fatal("Unable to load .env file")
	}

	x = os.Getenv(v)
	return
}

// LoadEnvOr reads an env key after loading .env, falling back to def when
// the key is absent. Used for gateway base URLs and SMTP ports.
func LoadEnvOr(v, def string) string {
	x := LoadEnvFor(v)
	if x == "" {
		return def
	}
	return x
}
