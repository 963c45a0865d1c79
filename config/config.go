package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/rpupo63/portfolio-backend/errs"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Environment string
	LogLevel    string

	Server struct {
		Port            string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		IdleTimeout     time.Duration
		AcceptedOrigins []string
		LoginRateLimit  string
		MetricsEnabled  bool
	}

	Database struct {
		DSN         string
		ReplicaDSN  string
		AutoMigrate bool
	}

	Auth struct {
		JWTSecret          string
		JWTSecretParameter string
	}

	AWS struct {
		Region string
	}

	Email struct {
		ResendAPIKey string
		FromEmail    string
		NotifyEmail  string
	}

	Storage struct {
		Bucket        string
		Region        string
		Endpoint      string
		KeyPrefix     string
		PublicBaseURL string
	}

	Seed struct {
		Username string
		Email    string
		Password string
		Role     string
	}

	// One-shot modes; main exits after running the first one set.
	Tasks struct {
		SeedAdmin      bool
		GenerateModels bool
		ColumnReport   bool
	}
}

// IsProduction decides cookie security attributes and log format.
func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded, using process environment")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", EnvDevelopment)
	v.SetDefault("log_level", "info")
	v.SetDefault("port", "8080")
	v.SetDefault("read_timeout_seconds", 30)
	v.SetDefault("write_timeout_seconds", 30)
	v.SetDefault("idle_timeout_seconds", 120)
	v.SetDefault("accepted_origins", "")
	v.SetDefault("login_rate_limit", "20-M")
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("database_url", "")
	v.SetDefault("database_replica_url", "")
	v.SetDefault("db_host", "")
	v.SetDefault("db_user", "")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_sslmode", "require")
	v.SetDefault("auto_migrate", true)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_secret_ssm_parameter", "")
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("resend_api_key", "")
	v.SetDefault("resend_from_email", "")
	v.SetDefault("contact_notify_email", "")
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_region", "")
	v.SetDefault("s3_endpoint", "")
	v.SetDefault("s3_key_prefix", "portfolio")
	v.SetDefault("s3_public_base_url", "")
	v.SetDefault("admin_username", "")
	v.SetDefault("admin_email", "")
	v.SetDefault("admin_password", "")
	v.SetDefault("admin_role", "admin")
	v.SetDefault("seed_admin", false)
	v.SetDefault("generate_models", false)
	v.SetDefault("generate_column_report", false)
}

func fromViper(v *viper.Viper) (Config, error) {
	var cfg Config

	cfg.Environment = strings.ToLower(v.GetString("app_env"))
	cfg.LogLevel = v.GetString("log_level")

	cfg.Server.Port = v.GetString("port")
	cfg.Server.ReadTimeout = time.Duration(v.GetInt("read_timeout_seconds")) * time.Second
	cfg.Server.WriteTimeout = time.Duration(v.GetInt("write_timeout_seconds")) * time.Second
	cfg.Server.IdleTimeout = time.Duration(v.GetInt("idle_timeout_seconds")) * time.Second
	cfg.Server.AcceptedOrigins = splitList(v.GetString("accepted_origins"))
	cfg.Server.LoginRateLimit = v.GetString("login_rate_limit")
	cfg.Server.MetricsEnabled = v.GetBool("metrics_enabled")

	cfg.Database.DSN = v.GetString("database_url")
	if cfg.Database.DSN == "" && v.GetString("db_host") != "" {
		cfg.Database.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			v.GetString("db_host"),
			v.GetString("db_user"),
			v.GetString("db_password"),
			v.GetString("db_name"),
			v.GetString("db_port"),
			v.GetString("db_sslmode"),
		)
	}
	cfg.Database.ReplicaDSN = v.GetString("database_replica_url")
	cfg.Database.AutoMigrate = v.GetBool("auto_migrate")

	cfg.Auth.JWTSecret = v.GetString("jwt_secret")
	cfg.Auth.JWTSecretParameter = v.GetString("jwt_secret_ssm_parameter")

	cfg.AWS.Region = v.GetString("aws_region")

	cfg.Email.ResendAPIKey = v.GetString("resend_api_key")
	cfg.Email.FromEmail = v.GetString("resend_from_email")
	cfg.Email.NotifyEmail = v.GetString("contact_notify_email")

	cfg.Storage.Bucket = v.GetString("s3_bucket")
	cfg.Storage.Region = v.GetString("s3_region")
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = cfg.AWS.Region
	}
	cfg.Storage.Endpoint = v.GetString("s3_endpoint")
	cfg.Storage.KeyPrefix = strings.Trim(v.GetString("s3_key_prefix"), "/")
	cfg.Storage.PublicBaseURL = strings.TrimRight(v.GetString("s3_public_base_url"), "/")

	cfg.Seed.Username = v.GetString("admin_username")
	cfg.Seed.Email = v.GetString("admin_email")
	cfg.Seed.Password = v.GetString("admin_password")
	cfg.Seed.Role = v.GetString("admin_role")

	cfg.Tasks.SeedAdmin = v.GetBool("seed_admin")
	cfg.Tasks.GenerateModels = v.GetBool("generate_models")
	cfg.Tasks.ColumnReport = v.GetBool("generate_column_report")

	return cfg, cfg.Validate()
}

// Validate checks settings that have no usable default.
func (c Config) Validate() error {
	if c.Database.DSN == "" {
		return errs.NewEnvironmentVariableError("DATABASE_URL")
	}
	if c.Storage.PublicBaseURL != "" {
		if _, err := url.ParseRequestURI(c.Storage.PublicBaseURL); err != nil {
			return errs.NewConfigError("S3_PUBLIC_BASE_URL", err)
		}
	}
	if c.Server.Port == "" {
		return errs.NewEnvironmentVariableError("PORT")
	}
	return nil
}

// EmailEnabled reports whether contact notifications can be sent.
func (c Config) EmailEnabled() bool {
	return c.Email.ResendAPIKey != "" && c.Email.FromEmail != "" && c.Email.NotifyEmail != ""
}

// StorageEnabled reports whether image uploads are available.
func (c Config) StorageEnabled() bool {
	return c.Storage.Bucket != ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
