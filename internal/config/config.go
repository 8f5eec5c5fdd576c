// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

package config

import (
	"fmt"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	Uploads  UploadsConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string
	FrontendURL string // base of the React storefront, used in activation links
	MaxBodySize int    // in MB
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

// AuthConfig holds the process-wide signing secrets. They are read once at
// startup and passed into the token and session constructors, never consumed
// from ambient globals.
type AuthConfig struct { //nolint:govet // fieldalignment not critical
	ActivationSecret string
	SessionSecret    string
	ActivationTTL    time.Duration // lifetime of an activation token
	SessionTTL       time.Duration // lifetime of a seller session
	CookieName       string
	CookieSecure     bool
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

type UploadsConfig struct {
	Dir string
}

func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     cmd.String("base-url"),
			FrontendURL: cmd.String("frontend-url"),
			MaxBodySize: int(cmd.Int("max-body-size")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		Auth: AuthConfig{
			ActivationSecret: cmd.String("activation-secret"),
			SessionSecret:    cmd.String("session-secret"),
			ActivationTTL:    time.Duration(cmd.Int("activation-ttl")) * time.Minute,
			SessionTTL:       time.Duration(cmd.Int("session-ttl")) * time.Hour,
			CookieName:       cmd.String("cookie-name"),
			CookieSecure:     cmd.Bool("cookie-secure"),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			TLS:      cmd.Bool("smtp-tls"),
		},
		Uploads: UploadsConfig{
			Dir: cmd.String("upload-dir"),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Server.FrontendURL == "" {
		cfg.Server.FrontendURL = cfg.Server.BaseURL
	}

	return cfg
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8000,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL of the API",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_URL"), toml.TOML("server.base_url", configFile)),
		},
		&cli.StringFlag{
			Name:    "frontend-url",
			Usage:   "Base URL of the storefront, used in activation links",
			Sources: cli.NewValueSourceChain(cli.EnvVar("FRONTEND_URL"), toml.TOML("server.frontend_url", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   8,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/urbancomm.db",
			Usage:   "Database DSN",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		&cli.StringFlag{
			Name:    "activation-secret",
			Usage:   "Secret for signing shop activation tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ACTIVATION_SECRET"), toml.TOML("auth.activation_secret", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-secret",
			Usage:   "Secret for signing seller session tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_SECRET"), toml.TOML("auth.session_secret", configFile)),
		},
		&cli.IntFlag{
			Name:    "activation-ttl",
			Value:   5,
			Usage:   "Activation token lifetime in minutes",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ACTIVATION_TTL"), toml.TOML("auth.activation_ttl", configFile)),
		},
		&cli.IntFlag{
			Name:    "session-ttl",
			Value:   168, // 7 days
			Usage:   "Seller session lifetime in hours",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_TTL"), toml.TOML("auth.session_ttl", configFile)),
		},
		&cli.StringFlag{
			Name:    "cookie-name",
			Value:   "seller_token",
			Usage:   "Session cookie name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("COOKIE_NAME"), toml.TOML("auth.cookie_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "cookie-secure",
			Value:   true,
			Usage:   "Set the Secure attribute on the session cookie",
			Sources: cli.NewValueSourceChain(cli.EnvVar("COOKIE_SECURE"), toml.TOML("auth.cookie_secure", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP server host",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP server port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USERNAME"), toml.TOML("smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASSWORD"), toml.TOML("smtp.password", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "From address for outbound mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM"), toml.TOML("smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Value:   "UrbanComm",
			Usage:   "Display name for outbound mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_NAME"), toml.TOML("smtp.from_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS for SMTP",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("smtp.tls", configFile)),
		},
		&cli.StringFlag{
			Name:    "upload-dir",
			Value:   "./uploads",
			Usage:   "Directory for uploaded avatar files",
			Sources: cli.NewValueSourceChain(cli.EnvVar("UPLOAD_DIR"), toml.TOML("uploads.dir", configFile)),
		},
	}
}
