package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// App is the process configuration, populated from the environment. A
// local .env file is loaded first when APP_ENV is "local".
type App struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"inventorypos"`
	Env         string `envconfig:"ENV" default:"dev"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`

	// Store
	StoreDriver string `envconfig:"STORE_DRIVER" default:"mongo"` // mongo | memory
	MongoURI    string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDB     string `envconfig:"MONGO_DB" default:"inventoryDB"`

	// Optional product read cache; disabled when empty.
	RedisAddr string `envconfig:"REDIS_ADDR"`

	// Payment gateway
	StripeSecretKey string `envconfig:"STRIPE_SECRET_KEY"`

	// Tracing; spans stay in-process when empty.
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

func Load() (App, error) {
	if os.Getenv("APP_ENV") == "local" {
		// Missing .env is fine; the system environment still applies.
		_ = godotenv.Load(".env.local")
	}

	var c App
	err := envconfig.Process("", &c)
	return c, err
}
