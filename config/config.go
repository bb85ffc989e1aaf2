package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	Env                string
	DBPath             string
	CORSOrigins        string
	PublicURL          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	DocprocURL         string
	DocprocToken       string
	ResendAPIKey       string
	MailFrom           string
}

var AppConfig *Config

func Load() {
	_ = godotenv.Load()

	AppConfig = &Config{
		Port:               GetEnv("PORT", "3000"),
		Env:                GetEnv("ENV", "development"),
		DBPath:             GetEnv("DB_PATH", "./data/timetable.db"),
		CORSOrigins:        GetEnv("CORS_ORIGINS", "*"),
		PublicURL:          GetEnv("PUBLIC_URL", ""),
		GoogleClientID:     GetEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: GetEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  GetEnv("GOOGLE_REDIRECT_URL", "postmessage"),
		DocprocURL:         GetEnv("DOCPROC_URL", ""),
		DocprocToken:       GetEnv("DOCPROC_TOKEN", ""),
		ResendAPIKey:       GetEnv("RESEND_API_KEY", ""),
		MailFrom:           GetEnv("MAIL_FROM", "Timetable <timetable@example.com>"),
	}

	if AppConfig.GoogleClientID == "" {
		log.Fatal("GOOGLE_CLIENT_ID is required")
	}
	if AppConfig.GoogleClientSecret == "" {
		log.Println("GOOGLE_CLIENT_SECRET is not set, Drive imports and the redirect login are disabled")
	}
	if AppConfig.DocprocURL == "" {
		log.Println("DOCPROC_URL is not set, timetable imports will fail until it is configured")
	}
}

// IsProduction reports whether the app runs with ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
