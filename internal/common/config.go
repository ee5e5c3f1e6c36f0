package common

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Config carries everything the tool needs for one run. It is built once by
// LoadConfig and never mutated afterwards.
type Config struct {
	APIKey    string
	APISecret string
	Title     string
	Body      string
	Sender    string

	// Spreadsheet is the default contacts file ([SMS] DESTINATION); the CLI
	// flag takes precedence.
	Spreadsheet string

	// Email is nil when the [EMAIL] section is absent; confirmation mails
	// are then skipped entirely.
	Email *EmailConfig

	Endpoint     string
	SendTimeout  time.Duration
	MetricsPort  int
	OTLPEndpoint string
	ServiceName  string
}

// EmailConfig holds the SMTP details for the post-batch confirmation mails.
type EmailConfig struct {
	Sender      string
	Password    string
	Host        string
	Port        int
	Subject     string
	SuccessBody string
	ErrorBody   string
}

const (
	defaultSMTPHost = "smtp.office365.com"
	defaultSMTPPort = 587

	defaultSubject     = "Email notification"
	defaultSuccessBody = "We have sent you an SMS, please check your phone!"
	defaultErrorBody   = "We could not reach you by SMS, please get in touch with us!"
)

// LoadConfig reads the INI file at path and overlays environment settings.
// A missing file or a missing required key is a setup error; required keys
// are never defaulted silently.
func LoadConfig(path, service string) (*Config, error) {
	// a local .env is convenient in dev, absence is fine
	_ = godotenv.Load()

	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("read configuration %s: %w", path, err)
	}

	cfg := &Config{ServiceName: service}

	nexmo := file.Section("NEXMO")
	sms := file.Section("SMS")

	required := []struct {
		section *ini.Section
		key     string
		dst     *string
	}{
		{nexmo, "API_KEY", &cfg.APIKey},
		{nexmo, "API_SECRET", &cfg.APISecret},
		{sms, "TITLE", &cfg.Title},
		{sms, "BODY", &cfg.Body},
		{sms, "SENDER", &cfg.Sender},
	}
	for _, r := range required {
		v := r.section.Key(r.key).String()
		if v == "" {
			return nil, fmt.Errorf("configuration %s: missing required key [%s] %s", path, r.section.Name(), r.key)
		}
		*r.dst = v
	}

	cfg.Spreadsheet = sms.Key("DESTINATION").String()

	if emailSection, err := file.GetSection("EMAIL"); err == nil {
		email, err := loadEmailConfig(emailSection, cfg.Title)
		if err != nil {
			return nil, fmt.Errorf("configuration %s: %w", path, err)
		}
		cfg.Email = email
	}

	cfg.Endpoint = getEnv("NEXMO_ENDPOINT", "https://rest.nexmo.com")
	cfg.OTLPEndpoint = os.Getenv("OTLP_ENDPOINT")

	metricsPort, err := getEnvInt("METRICS_PORT", 0)
	if err != nil {
		return nil, err
	}
	cfg.MetricsPort = metricsPort

	timeoutSeconds, err := getEnvInt("SMS_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	cfg.SendTimeout = time.Duration(timeoutSeconds) * time.Second

	return cfg, nil
}

func loadEmailConfig(section *ini.Section, title string) (*EmailConfig, error) {
	email := &EmailConfig{
		Sender:   section.Key("SENDER").String(),
		Password: section.Key("PASSWORD").String(),
	}
	if email.Sender == "" || email.Password == "" {
		return nil, errors.New("missing EMAIL details (SENDER and PASSWORD)")
	}

	email.Host = section.Key("SMTP").String()
	if email.Host == "" {
		email.Host = defaultSMTPHost
	}
	port, err := section.Key("PORT").Int()
	if err != nil || port == 0 {
		port = defaultSMTPPort
	}
	email.Port = port

	email.Subject = section.Key("SUBJECT").String()
	if email.Subject == "" {
		if title != "" {
			email.Subject = title
		} else {
			email.Subject = defaultSubject
		}
	}
	email.SuccessBody = section.Key("SUCCESS").String()
	if email.SuccessBody == "" {
		email.SuccessBody = defaultSuccessBody
	}
	email.ErrorBody = section.Key("ERROR").String()
	if email.ErrorBody == "" {
		email.ErrorBody = defaultErrorBody
	}

	return email, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		return parsed, nil
	}
	return fallback, nil
}
