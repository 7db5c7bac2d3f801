package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config contient toute la configuration de l'application
type Config struct {
	Port string
	Env  string
	URL  string

	// PostgreSQL
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Razorpay (webhooks de paiement)
	RazorpayKeyID         string
	RazorpayWebhookSecret string

	// Cloudinary (stockage des avatars)
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Amazon SES (emails transactionnels)
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
}

// LoadConfig charge la configuration depuis les variables d'environnement
// (un fichier .env est chargé s'il existe, sinon on utilise l'environnement)
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("APP_ENV", "development"),
		URL:  getEnv("APP_URL", "http://localhost:8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "zeroprint"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "zeroprint"),

		RazorpayKeyID:         os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		AWSRegion:    getEnv("AWS_REGION", "ap-south-1"),
		SESFromEmail: os.Getenv("SES_FROM_EMAIL"),
		SESFromName:  getEnv("SES_FROM_NAME", "ZeroPrint"),
	}

	if cfg.DBPassword == "" && cfg.Env == "production" {
		return nil, fmt.Errorf("DB_PASSWORD is required in production")
	}

	return cfg, nil
}

// getEnv lit une variable d'environnement ou retourne la valeur par défaut
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
