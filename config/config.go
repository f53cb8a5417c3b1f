package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Booking  BookingConfig  `yaml:"booking"`
	Captcha  CaptchaConfig  `yaml:"captcha"`
	Presets  PresetsConfig  `yaml:"presets"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

// SiteConfig describes the external booking site. Submit paths may contain
// the {session} placeholder.
type SiteConfig struct {
	BaseURL           string `yaml:"base_url"`
	BookingPagePath   string `yaml:"booking_page_path"`
	BookingSubmitPath string `yaml:"booking_submit_path"`
	TrainSubmitPath   string `yaml:"train_submit_path"`
	ConfirmSubmitPath string `yaml:"confirm_submit_path"`
	SessionCookie     string `yaml:"session_cookie"`
	UserAgent         string `yaml:"user_agent"`
	Accept            string `yaml:"accept"`
	AcceptLanguage    string `yaml:"accept_language"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	Timezone          string `yaml:"timezone"`
}

func (s SiteConfig) URL(path string) string {
	return strings.TrimRight(s.BaseURL, "/") + path
}

type BookingConfig struct {
	// IdentityCategories lists the ticket categories whose passengers must
	// supply an identity document number at confirmation.
	IdentityCategories []string `yaml:"identity_categories"`
}

type CaptchaConfig struct {
	LocalPath  string `yaml:"local_path"`
	OpenViewer bool   `yaml:"open_viewer"`
	// InlinePreview draws the image as sixel graphics when stdout is a terminal.
	InlinePreview bool `yaml:"inline_preview"`
}

type PresetsConfig struct {
	Backend  string `yaml:"backend"`
	Path     string `yaml:"path"`
	RedisKey string `yaml:"redis_key"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// HistoryTTLSeconds bounds how long the reservation list stays cached.
	HistoryTTLSeconds int `yaml:"history_ttl_seconds"`
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type KafkaConfig struct {
	Brokers          []string `yaml:"brokers"`
	ReservationTopic string   `yaml:"reservation_topic"`
	GroupID          string   `yaml:"group_id"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.ReservationTopic != ""
}

type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
	// TextfilePath, when set, makes the CLI dump its metrics there on exit.
	TextfilePath string `yaml:"textfile_path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a configuration that talks to the public site with
// file presets and no optional backends.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			BaseURL:           "https://irs.thsrc.com.tw",
			BookingPagePath:   "/IMINT/?locale=tw",
			BookingSubmitPath: "/IMINT/;jsessionid={session}?wicket:interface=:0:BookingS1Form::IFormSubmitListener",
			TrainSubmitPath:   "/IMINT/?wicket:interface=:1:BookingS2Form::IFormSubmitListener",
			ConfirmSubmitPath: "/IMINT/?wicket:interface=:2:BookingS3Form::IFormSubmitListener",
			SessionCookie:     "JSESSIONID",
			UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/42.0.2311.135 Safari/537.36 Edge/12.246",
			Accept:            "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			AcceptLanguage:    "zh-TW,zh;q=0.8,en-US;q=0.5,en;q=0.3",
			TimeoutSeconds:    30,
			Timezone:          "Asia/Taipei",
		},
		Booking: BookingConfig{
			IdentityCategories: []string{"disabled", "elder"},
		},
		Captcha: CaptchaConfig{
			LocalPath:  "tmp/captcha.png",
			OpenViewer: true,
		},
		Presets: PresetsConfig{
			Backend:  "file",
			Path:     "presets.json",
			RedisKey: "thsrbook:presets",
		},
		HTTP: HTTPConfig{
			Address: ":8080",
		},
		Database: DatabaseConfig{
			Port:    5432,
			SSLMode: "disable",
		},
		Redis: RedisConfig{
			HistoryTTLSeconds: 60,
		},
		Kafka: KafkaConfig{
			ReservationTopic: "reservations",
			GroupID:          "thsrbook-worker",
		},
		Metrics: MetricsConfig{
			Namespace: "thsrbook",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults and applies
// environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Site.BaseURL = getEnv("THSR_BASE_URL", cfg.Site.BaseURL)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Presets.Path = getEnv("PRESETS_PATH", cfg.Presets.Path)
	cfg.Presets.Backend = getEnv("PRESETS_BACKEND", cfg.Presets.Backend)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Database.Host = getEnv("DATABASE_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnvAsInt("DATABASE_PORT", cfg.Database.Port)
	cfg.HTTP.Address = getEnv("HTTP_ADDRESS", cfg.HTTP.Address)
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
