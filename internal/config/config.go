// Package config reads all environment-held configuration so main stays lean.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config aggregates every setting the service consumes from the environment.
type Config struct {
	Addr         string
	DashboardURL string
	Database     Database
	SMTP         SMTP
	Admin        Admin
	Session      Session
}

// Database holds PostgreSQL connection settings.
type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// SMTP holds outbound mail relay settings. AdminEmail is the fixed
// operations address that receives a copy of every registration.
type SMTP struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	FromName   string
	AdminEmail string
}

// Admin is the single privileged dashboard account. PasswordHash is a
// bcrypt hash, never a plaintext password.
type Admin struct {
	Email        string
	PasswordHash string
}

// Session configures admin session tokens.
type Session struct {
	SigningKey string
	TTL        time.Duration
}

// FromEnv builds the full configuration, falling back to local-development
// defaults for everything except credentials.
func FromEnv() Config {
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		smtpPort = 587
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "12h"))
	if err != nil {
		sessionTTL = 12 * time.Hour
	}

	return Config{
		Addr:         ":" + getEnv("PORT", "8080"),
		DashboardURL: getEnv("DASHBOARD_URL", "http://localhost:8080/admin"),
		Database: Database{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "summit"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		SMTP: SMTP{
			Host:       getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:       smtpPort,
			Username:   os.Getenv("EMAIL_USER"),
			Password:   os.Getenv("EMAIL_PASS"),
			From:       getEnv("EMAIL_FROM", os.Getenv("EMAIL_USER")),
			FromName:   getEnv("EMAIL_FROM_NAME", "Youth Gita Summit"),
			AdminEmail: os.Getenv("ADMIN_EMAIL"),
		},
		Admin: Admin{
			Email:        getEnv("ADMIN_LOGIN_EMAIL", "admin@example.com"),
			PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		},
		Session: Session{
			SigningKey: getEnv("SESSION_SIGNING_KEY", "dev-secret-key-change-in-production"),
			TTL:        sessionTTL,
		},
	}
}

// DSN builds a libpq-compatible connection string.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL builds a postgres:// URL, the form golang-migrate expects.
func (d Database) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
