package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bookstore-migrator/internal/config"
	"bookstore-migrator/internal/infrastructure/database"
	"bookstore-migrator/internal/infrastructure/httpx"
	"bookstore-migrator/internal/infrastructure/storage"
	"bookstore-migrator/internal/infrastructure/supabase"
	"bookstore-migrator/internal/infrastructure/wordpress"
	"bookstore-migrator/pkg/logger"

	authorRepo "bookstore-migrator/internal/domains/author/repository"
	authorService "bookstore-migrator/internal/domains/author/service"
	bookRepo "bookstore-migrator/internal/domains/book/repository"
	bookService "bookstore-migrator/internal/domains/book/service"

	"github.com/rs/zerolog/log"
)

// apiTimeout áp dụng cho WordPress và Supabase REST calls
const apiTimeout = 60 * time.Second

// ========================================
// CONTAINER STRUCT
// ========================================

// Container giữ các dependency dùng chung giữa các command.
// Mỗi command chỉ build phần nó cần, nên thiếu config của command khác
// không làm command hiện tại fail.
type Container struct {
	Config *config.Config

	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	HTTPClient *http.Client
	WordPress  *wordpress.Client
	Supabase   *supabase.Client
	DB         *database.PostgresDB
}

// NewContainer validates nothing beyond what config.Load already did;
// command-specific requirements are checked by the builders below.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		Config:     cfg,
		HTTPClient: httpx.NewClient(apiTimeout),
	}
}

// ========================================
// INFRASTRUCTURE BUILDERS
// ========================================

func (c *Container) wordpressClient() (*wordpress.Client, error) {
	if c.WordPress != nil {
		return c.WordPress, nil
	}
	if err := c.Config.RequireWordPress(); err != nil {
		return nil, err
	}
	c.WordPress = wordpress.NewClient(c.Config.WordPress, c.HTTPClient)
	return c.WordPress, nil
}

func (c *Container) supabaseClient() (*supabase.Client, error) {
	if c.Supabase != nil {
		return c.Supabase, nil
	}
	if err := c.Config.RequireSupabase(); err != nil {
		return nil, err
	}

	if role := c.Config.Supabase.KeyRole(); role != "" && role != "service_role" {
		logger.Warn("⚠️  Supabase key is not a service_role key, writes may be rejected by RLS", map[string]interface{}{
			"role": role,
		})
	}

	c.Supabase = supabase.NewClient(c.Config.Supabase, c.HTTPClient)
	return c.Supabase, nil
}

// objectStore chọn backend theo STORAGE_BACKEND
func (c *Container) objectStore(ctx context.Context) (storage.ObjectStore, error) {
	switch c.Config.Storage.Backend {
	case config.StorageBackendMinIO:
		if err := c.Config.RequireMinIO(); err != nil {
			return nil, err
		}
		store, err := storage.NewMinIOStorage(ctx, c.Config.Storage.MinIO)
		if err != nil {
			return nil, fmt.Errorf("failed to init minio storage: %w", err)
		}
		log.Info().Str("bucket", c.Config.Storage.MinIO.Bucket).Msg("🪣 Using MinIO storage")
		return store, nil
	default:
		return c.supabaseClient()
	}
}

func (c *Container) database(ctx context.Context) (*database.PostgresDB, error) {
	if c.DB != nil {
		return c.DB, nil
	}
	if err := c.Config.RequireDatabase(); err != nil {
		return nil, err
	}

	log.Info().Msg("🗄️  Connecting to PostgreSQL...")
	db := database.NewPostgresDB(c.Config.Database)
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db
	log.Info().Msg("✅ Database connected")
	return db, nil
}

// ========================================
// SERVICE BUILDERS
// ========================================

func (c *Container) UserImportService() (authorService.UserImportServiceInterface, error) {
	wp, err := c.wordpressClient()
	if err != nil {
		return nil, err
	}
	sb, err := c.supabaseClient()
	if err != nil {
		return nil, err
	}

	return authorService.NewUserImportService(
		authorRepo.NewWordPressSource(wp, c.Config.WordPress.AuthorCPT),
		authorRepo.NewProfileStore(sb),
		authorRepo.NewIdentityProvider(sb),
	), nil
}

func (c *Container) AutorImportService() (authorService.AutorImportServiceInterface, error) {
	wp, err := c.wordpressClient()
	if err != nil {
		return nil, err
	}
	sb, err := c.supabaseClient()
	if err != nil {
		return nil, err
	}

	return authorService.NewAutorImportService(
		authorRepo.NewWordPressSource(wp, c.Config.WordPress.AuthorCPT),
		authorRepo.NewAuthorStore(sb),
	), nil
}

// PhotoMigrationService uses a dedicated HTTP client for downloads: the
// per-attempt timeout comes from the command flags.
func (c *Container) PhotoMigrationService(ctx context.Context, opts storage.DownloadOptions) (authorService.PhotoMigrationServiceInterface, error) {
	sb, err := c.supabaseClient()
	if err != nil {
		return nil, err
	}
	store, err := c.objectStore(ctx)
	if err != nil {
		return nil, err
	}

	downloader := storage.NewDownloader(httpx.NewClient(0), opts)
	return authorService.NewPhotoMigrationService(
		authorRepo.NewPhotoStore(sb),
		downloader,
		storage.NewImageProcessor(),
		store,
	), nil
}

// SeedService chỉ kết nối database khi apply = true
func (c *Container) SeedService(ctx context.Context, apply bool) (bookService.SeedServiceInterface, error) {
	var applier bookRepo.SeedApplier
	if apply {
		db, err := c.database(ctx)
		if err != nil {
			return nil, err
		}
		applier = bookRepo.NewPostgresApplier(db.Pool)
	}

	return bookService.NewSeedService(bookRepo.NewFileReader(), bookRepo.NewFileWriter(), applier), nil
}

// Cleanup đóng các connection đã mở
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
		log.Debug().Msg("Database connections closed")
	}
	c.HTTPClient.CloseIdleConnections()
}
