package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config is threaded through every controller; no package-level state.
type Config struct {
	Port        string
	MongoClient *mongo.Client
	DBName      string

	JWTSecret string

	PaystackSecret  string
	PaystackBaseURL string

	AdminEmail    string
	AdminPassword string

	FrontendURL string
	AdminURL    string
	SupportURL  string
}

// Load reads the environment (optionally seeded from .env) and connects to
// MongoDB. Missing critical values fail fast here rather than at first use.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := &Config{
		Port:            getEnv("PORT", "5000"),
		DBName:          getEnv("DB_NAME", "klyntfund"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		PaystackSecret:  os.Getenv("PAYSTACK_SECRET_KEY"),
		PaystackBaseURL: getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		FrontendURL:     os.Getenv("FRONTEND_URL"),
		AdminURL:        os.Getenv("ADMIN_URL"),
		SupportURL:      os.Getenv("SUPPORT_URL"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	uri := getEnv("MONGODB_URI", "mongodb://localhost:27017")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	cfg.MongoClient = client
	return cfg, nil
}

// Collection is a shorthand every controller uses for reaching a collection
// in the configured database.
func (c *Config) Collection(name string) *mongo.Collection {
	return c.MongoClient.Database(c.DBName).Collection(name)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
