package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port            int      `yaml:"port"`
		AllowedOrigins  []string `yaml:"allowedOrigins"`
		SearchRateLimit struct {
			Capacity        int `yaml:"capacity"`
			RefillPerSecond int `yaml:"refillPerSecond"`
		} `yaml:"searchRateLimit"`
		// WebhookToken, when set, is required as a Bearer token on /events/storage.
		WebhookToken string `yaml:"webhookToken"`
	} `yaml:"server"`

	Database struct {
		Driver      string `yaml:"driver"`
		Host        string `yaml:"host"`
		Port        int    `yaml:"port"`
		User        string `yaml:"user"`
		Password    string `yaml:"password"`
		Name        string `yaml:"name"`
		SSLMode     string `yaml:"sslMode"`
		AutoMigrate bool   `yaml:"autoMigrate"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Analysis struct {
		APIKey             string  `yaml:"apiKey"`
		Model              string  `yaml:"model"`
		BaseURL            string  `yaml:"baseURL"`
		MinLabelConfidence float64 `yaml:"minLabelConfidence"`
		MaxLabels          int     `yaml:"maxLabels"`
	} `yaml:"analysis"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Load baca file config.yaml, apply defaults and env overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes raw YAML into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMySQL
	}
	if c.Database.Port == 0 {
		if c.Database.Driver == DriverPostgres {
			c.Database.Port = 5432
		} else {
			c.Database.Port = 3306
		}
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Minio.Region == "" {
		c.Minio.Region = "us-east-1"
	}
	if c.Analysis.Model == "" {
		c.Analysis.Model = "gpt-4o-mini"
	}
	if c.Analysis.MinLabelConfidence == 0 {
		c.Analysis.MinLabelConfidence = 70
	}
	if c.Analysis.MaxLabels == 0 {
		c.Analysis.MaxLabels = 20
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// secrets boleh datang dari env supaya tidak perlu ditulis di file
func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		c.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Minio.SecretKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Analysis.APIKey = v
	}
	if v := os.Getenv("WEBHOOK_AUTH_TOKEN"); v != "" {
		c.Server.WebhookToken = v
	}
}

// Validate checks the settings both binaries cannot start without.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q (allowed: mysql, postgres)", c.Database.Driver)
	}
	if strings.TrimSpace(c.Minio.Endpoint) == "" {
		return fmt.Errorf("minio.endpoint is required")
	}
	if strings.TrimSpace(c.Minio.BucketName) == "" {
		return fmt.Errorf("minio.bucketName is required")
	}
	if c.Analysis.MaxLabels < 0 {
		return fmt.Errorf("analysis.maxLabels must not be negative")
	}
	return nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres (lib/pq URL form)
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Name,
		RawQuery: url.Values{"sslmode": {c.Database.SSLMode}}.Encode(),
	}
	return u.String()
}
