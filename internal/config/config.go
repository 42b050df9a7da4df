package config

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

type Configuration struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Python   PythonConfig
	ASR      ASRConfig
	PDF      PDFConfig
	SMTP     SMTPConfig
}

type ServerConfig struct {
	Port         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            string
	Username        string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime int
}

type LoggingConfig struct {
	Level string
}

// PythonConfig points at the separately deployed inference service the
// proxy routes forward to.
type PythonConfig struct {
	BaseURL string
	Timeout time.Duration
}

type ASRConfig struct {
	URL             string
	Timeout         time.Duration
	DefaultLanguage string
	FFmpegPath      string
}

type PDFConfig struct {
	// ExecPath locates the headless Chrome binary; empty means let the
	// renderer discover one on PATH.
	ExecPath string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Load builds the configuration from defaults overridden by environment
// variables. It never fails; missing values fall back to development
// defaults.
func Load() *Configuration {
	cfg := &Configuration{
		Server: ServerConfig{
			Port:         "5000",
			Environment:  "development",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            "5432",
			Username:        "postgres",
			Password:        "password",
			Name:            "reqgen",
			SSLMode:         "disable",
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: 300,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Python: PythonConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 5 * time.Minute,
		},
		ASR: ASRConfig{
			URL:             "https://asr.vakyansh.in/asr/v1/recognize/hi",
			Timeout:         30 * time.Second,
			DefaultLanguage: "hi",
			FFmpegPath:      "ffmpeg",
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
	}

	overrideString(&cfg.Server.Port, "PORT")
	overrideString(&cfg.Server.Environment, "APP_ENV")
	overrideString(&cfg.Logging.Level, "LOG_LEVEL")

	overrideString(&cfg.Database.Host, "DB_HOST")
	overrideString(&cfg.Database.Port, "DB_PORT")
	overrideString(&cfg.Database.Username, "DB_USER")
	overrideString(&cfg.Database.Password, "DB_PASSWORD")
	overrideString(&cfg.Database.Name, "DB_NAME")
	overrideString(&cfg.Database.SSLMode, "DB_SSLMODE")

	overrideString(&cfg.Python.BaseURL, "PYTHON_BACKEND_URL")
	overrideString(&cfg.ASR.URL, "ASR_API_URL")
	overrideString(&cfg.ASR.DefaultLanguage, "ASR_DEFAULT_LANGUAGE")
	overrideString(&cfg.ASR.FFmpegPath, "FFMPEG_PATH")
	overrideString(&cfg.PDF.ExecPath, "CHROME_EXECUTABLE_PATH")

	overrideString(&cfg.SMTP.Host, "SMTP_HOST")
	overrideInt(&cfg.SMTP.Port, "SMTP_PORT")
	overrideString(&cfg.SMTP.Username, "SMTP_USER")
	overrideString(&cfg.SMTP.Password, "SMTP_PASSWORD")
	overrideString(&cfg.SMTP.From, "SMTP_FROM")
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.Username
	}

	return cfg
}

func overrideString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func overrideInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

func LogConfig(cfg *Configuration, logger *zap.Logger) {
	logger.Info("Application configuration",
		zap.String("port", cfg.Server.Port),
		zap.String("environment", cfg.Server.Environment),
		zap.String("database_host", cfg.Database.Host),
		zap.String("database_name", cfg.Database.Name),
		zap.String("python_backend_url", cfg.Python.BaseURL),
		zap.String("asr_url", cfg.ASR.URL),
		zap.Duration("asr_timeout", cfg.ASR.Timeout),
		zap.Duration("python_timeout", cfg.Python.Timeout),
		zap.String("smtp_host", cfg.SMTP.Host),
		zap.String("chrome_exec_path", cfg.PDF.ExecPath),
	)
}
