package configs

import (
	"fmt"
	"os"
	"strconv"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Email      EmailConfig
	Encryption EncryptionConfig
	Masking    MaskingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
	TTL    int // in hours
}

// EmailConfig holds email configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SenderEmail  string
}

// EncryptionConfig holds the card number encryption key. The key is
// provisioned out-of-band and must be 16, 24 or 32 bytes.
type EncryptionConfig struct {
	CardKey string
}

// MaskingConfig holds card number masking configuration
type MaskingConfig struct {
	VisibleDigits int
	MaskChar      string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, err
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, err
	}

	jwtTTL, err := strconv.Atoi(getEnv("JWT_TTL", "24"))
	if err != nil {
		return nil, err
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, err
	}

	visibleDigits, err := strconv.Atoi(getEnv("CARD_MASK_VISIBLE_DIGITS", "4"))
	if err != nil {
		return nil, err
	}

	cardKey := os.Getenv("CARD_ENCRYPTION_KEY")
	if cardKey == "" {
		return nil, fmt.Errorf("CARD_ENCRYPTION_KEY is not set")
	}

	return &Config{
		Server: ServerConfig{
			Port: port,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "bank_cards"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "super_secret_key"),
			TTL:    jwtTTL,
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", "smtp.example.com"),
			SMTPPort:     smtpPort,
			SMTPUser:     getEnv("SMTP_USER", "user"),
			SMTPPassword: getEnv("SMTP_PASSWORD", "password"),
			SenderEmail:  getEnv("SENDER_EMAIL", "no-reply@bank-cards.com"),
		},
		Encryption: EncryptionConfig{
			CardKey: cardKey,
		},
		Masking: MaskingConfig{
			VisibleDigits: visibleDigits,
			MaskChar:      getEnv("CARD_MASK_CHAR", "*"),
		},
	}, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
