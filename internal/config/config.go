package config

import (
	"errors"
	"fmt"
	"strings"

	"bookstore-migrator/internal/infrastructure/database"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingConfig is returned when a command lacks required settings.
var ErrMissingConfig = errors.New("missing required configuration")

// Config chứa toàn bộ configuration của migrator
// Được build một lần lúc startup và truyền vào từng collaborator
type Config struct {
	App       AppConfig
	WordPress WordPressConfig
	Supabase  SupabaseConfig
	Import    ImportConfig
	Storage   StorageConfig
	Database  *database.DBConfig
}

type AppConfig struct {
	Environment string // development, production
	LogLevel    string
	EnvFile     string
}

type WordPressConfig struct {
	URL          string `json:"WP_URL"`
	User         string `json:"WP_USER"`
	AppPassword  string `json:"WP_APP_PASSWORD"`
	AuthorCPT    string // custom post type của author (default: autores)
	AuthorStatus string // post status filter (default: publish)
	AuthorRoles  []string
	PageSize     int
}

type SupabaseConfig struct {
	URL           string `json:"SUPABASE_URL"`
	ServiceKey    string `json:"SUPABASE_SERVICE_ROLE_KEY"`
	StorageBucket string
}

type ImportConfig struct {
	AuthorStatus string // status ghi vào profiles mới (pending/approved/rejected)
}

// =====================================================
// STORAGE CONFIGURATION
// =====================================================

const (
	StorageBackendSupabase = "supabase"
	StorageBackendMinIO    = "minio"
)

type StorageConfig struct {
	Backend string
	MinIO   MinIOConfig
}

type MinIOConfig struct {
	Endpoint  string `json:"MINIO_ENDPOINT"`
	AccessKey string `json:"MINIO_ACCESS_KEY"`
	SecretKey string `json:"MINIO_SECRET_KEY"`
	Bucket    string `json:"MINIO_BUCKET"`
	UseSSL    bool
	PublicURL string // base URL public (CDN); rỗng → build từ endpoint
}

// Load đọc env file (ENV_FILE hoặc envFile) rồi build Config.
// Process environment luôn được ưu tiên hơn giá trị trong file.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = NewEnvironment(nil).Get("ENV_FILE", DefaultEnvFile)
	}

	values, err := LoadEnvFile(envFile)
	if err != nil {
		return nil, err
	}

	cfg, err := FromEnvironment(NewEnvironment(values))
	if err != nil {
		return nil, err
	}
	cfg.App.EnvFile = envFile
	return cfg, nil
}

// FromEnvironment builds a Config from an already layered Environment.
func FromEnvironment(env *Environment) (*Config, error) {
	useSSL, err := env.Bool("MINIO_USE_SSL", false)
	if err != nil {
		return nil, err
	}

	dbCfg, err := LoadDatabaseConfig(env)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Environment: env.Get("APP_ENV", "development"),
			LogLevel:    env.Get("LOG_LEVEL", "info"),
		},
		WordPress: WordPressConfig{
			URL:          strings.TrimRight(env.Get("WP_URL", ""), "/"),
			User:         env.Get("WP_USER", ""),
			AppPassword:  env.Get("WP_APP_PASSWORD", ""),
			AuthorCPT:    env.Get("WP_AUTHOR_CPT", "autores"),
			AuthorStatus: env.Get("WP_AUTHOR_STATUS", "publish"),
			AuthorRoles:  env.List("WP_AUTHOR_ROLES"),
			PageSize:     100,
		},
		Supabase: SupabaseConfig{
			URL:           strings.TrimRight(env.First("SUPABASE_URL", "VITE_SUPABASE_URL"), "/"),
			ServiceKey:    env.First("SUPABASE_SERVICE_ROLE_KEY", "SUPABASE_SERVICE_KEY"),
			StorageBucket: env.Get("SUPABASE_STORAGE_BUCKET", "authors"),
		},
		Import: ImportConfig{
			AuthorStatus: env.Get("AUTHOR_STATUS", "approved"),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(env.Get("STORAGE_BACKEND", StorageBackendSupabase)),
			MinIO: MinIOConfig{
				Endpoint:  env.Get("MINIO_ENDPOINT", "localhost:9000"),
				AccessKey: env.Get("MINIO_ACCESS_KEY", ""),
				SecretKey: env.Get("MINIO_SECRET_KEY", ""),
				Bucket:    env.Get("MINIO_BUCKET", "bookstore"),
				UseSSL:    useSSL,
				PublicURL: strings.TrimRight(env.Get("MINIO_PUBLIC_URL", ""), "/"),
			},
		},
		Database: dbCfg,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate kiểm tra các giá trị luôn phải hợp lệ (không phụ thuộc command)
func (c *Config) Validate() error {
	return validation.Errors{
		"STORAGE_BACKEND": validation.Validate(c.Storage.Backend,
			validation.In(StorageBackendSupabase, StorageBackendMinIO)),
		"AUTHOR_STATUS": validation.Validate(c.Import.AuthorStatus,
			validation.In("pending", "approved", "rejected")),
	}.Filter()
}

// RequireWordPress checks the settings needed to read from WordPress.
func (c *Config) RequireWordPress() error {
	err := validation.ValidateStruct(&c.WordPress,
		validation.Field(&c.WordPress.URL, validation.Required, is.URL),
		validation.Field(&c.WordPress.User, validation.Required),
		validation.Field(&c.WordPress.AppPassword, validation.Required),
	)
	return missing(err)
}

// RequireSupabase checks the settings needed to write to Supabase.
func (c *Config) RequireSupabase() error {
	err := validation.ValidateStruct(&c.Supabase,
		validation.Field(&c.Supabase.URL, validation.Required, is.URL),
		validation.Field(&c.Supabase.ServiceKey, validation.Required),
	)
	return missing(err)
}

// RequireMinIO chỉ check khi STORAGE_BACKEND=minio
func (c *Config) RequireMinIO() error {
	m := &c.Storage.MinIO
	err := validation.ValidateStruct(m,
		validation.Field(&m.Endpoint, validation.Required),
		validation.Field(&m.AccessKey, validation.Required),
		validation.Field(&m.SecretKey, validation.Required),
		validation.Field(&m.Bucket, validation.Required),
	)
	return missing(err)
}

// RequireDatabase is needed only when the seed is applied directly.
func (c *Config) RequireDatabase() error {
	if c.Database == nil || c.Database.URL == "" {
		return fmt.Errorf("%w: DATABASE_URL: cannot be blank", ErrMissingConfig)
	}
	return nil
}

func missing(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrMissingConfig, err)
}

// KeyRole decodes the role claim of the service key without verifying it.
// Keys that are not JWTs yield "".
func (s SupabaseConfig) KeyRole() string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.ServiceKey, claims); err != nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}
