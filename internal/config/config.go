package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port        int    `yaml:"port"`
	GinMode     string `yaml:"gin_mode"`
	CORSOrigins string `yaml:"cors_origins"`
}

type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

type OTPConfig struct {
	TTL    string `yaml:"ttl"`
	Length int    `yaml:"length"`
}

type SessionConfig struct {
	TTL string `yaml:"ttl"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type ConfigFile struct {
	App     AppConfig     `yaml:"app"`
	Sheets  SheetsConfig  `yaml:"sheets"`
	OTP     OTPConfig     `yaml:"otp"`
	Session SessionConfig `yaml:"session"`
	Twilio  TwilioConfig  `yaml:"twilio"`
}

type Config struct {
	Port            string
	GinMode         string
	CORSOrigins     []string
	SpreadsheetID   string
	CredentialsFile string
	OTPTTL          time.Duration
	OTPLength       int
	SessionTTL      time.Duration
	TwilioSID       string
	TwilioToken     string
	TwilioFrom      string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	configFile, err := loadConfigFile(env("CONFIG_PATH", "config/config.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	otpTTL, err := time.ParseDuration(configFile.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}

	sessionTTL, err := time.ParseDuration(configFile.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}

	// Secrets come from the environment, never the checked-in yaml.
	return &Config{
		Port:            fmt.Sprintf("%d", configFile.App.Port),
		GinMode:         configFile.App.GinMode,
		CORSOrigins:     splitOrigins(env("CORS_ORIGINS", configFile.App.CORSOrigins)),
		SpreadsheetID:   env("GOOGLE_SPREADSHEET_ID", configFile.Sheets.SpreadsheetID),
		CredentialsFile: env("GOOGLE_APPLICATION_CREDENTIALS", configFile.Sheets.CredentialsFile),
		OTPTTL:          otpTTL,
		OTPLength:       configFile.OTP.Length,
		SessionTTL:      sessionTTL,
		TwilioSID:       env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken:     env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:      env("TWILIO_PHONE_NUMBER", configFile.Twilio.FromNumber),
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func splitOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
