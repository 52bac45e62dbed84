package container

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"serialfic-backend/internal/config"
	bookHandler "serialfic-backend/internal/domains/book/handler"
	bookRepo "serialfic-backend/internal/domains/book/repository"
	bookService "serialfic-backend/internal/domains/book/service"
	chapterHandler "serialfic-backend/internal/domains/chapter/handler"
	chapterRepo "serialfic-backend/internal/domains/chapter/repository"
	chapterService "serialfic-backend/internal/domains/chapter/service"
	commentHandler "serialfic-backend/internal/domains/comment/handler"
	commentRepo "serialfic-backend/internal/domains/comment/repository"
	commentService "serialfic-backend/internal/domains/comment/service"
	saveHandler "serialfic-backend/internal/domains/save/handler"
	saveRepo "serialfic-backend/internal/domains/save/repository"
	saveService "serialfic-backend/internal/domains/save/service"
	tagHandler "serialfic-backend/internal/domains/tag/handler"
	tagRepo "serialfic-backend/internal/domains/tag/repository"
	tagService "serialfic-backend/internal/domains/tag/service"
	userHandler "serialfic-backend/internal/domains/user/handler"
	userRepo "serialfic-backend/internal/domains/user/repository"
	userService "serialfic-backend/internal/domains/user/service"

	"serialfic-backend/internal/domains/book"
	"serialfic-backend/internal/domains/chapter"
	"serialfic-backend/internal/domains/comment"
	"serialfic-backend/internal/domains/save"
	"serialfic-backend/internal/domains/tag"
	"serialfic-backend/internal/domains/user"
	"serialfic-backend/internal/infrastructure/cache"
	"serialfic-backend/internal/infrastructure/database"
	"serialfic-backend/internal/infrastructure/imagehost"
	"serialfic-backend/internal/infrastructure/queue"
	"serialfic-backend/internal/infrastructure/session"
	"serialfic-backend/internal/infrastructure/storage"
	"serialfic-backend/internal/shared/middleware"
	"serialfic-backend/internal/shared/visibility"
)

// Container holds every long-lived dependency of the API process.
type Container struct {
	// Infrastructure
	Config   *config.Config
	DB       *database.PostgresDB
	Redis    *redis.Client
	Cache    *cache.RedisCache
	Sessions *session.Manager
	Images   imagehost.Host
	Queue    *queue.Client // nil when the queue is disabled
	Cleaner  queue.ImageCleaner

	// Repositories
	UserRepo    user.Repository
	TagRepo     tag.Repository
	BookRepo    book.Repository
	ChapterRepo chapter.Repository
	CommentRepo comment.Repository
	SaveRepo    save.Repository

	Visibility *visibility.Policy

	// Services
	UserService    user.Service
	TagService     tag.Service
	BookService    book.Service
	ChapterService chapter.Service
	CommentService comment.Service
	SaveService    save.Service

	// Handlers
	UserHandler    *userHandler.UserHandler
	TagHandler     *tagHandler.TagHandler
	BookHandler    *bookHandler.BookHandler
	ChapterHandler *chapterHandler.ChapterHandler
	CommentHandler *commentHandler.CommentHandler
	SaveHandler    *saveHandler.SaveHandler

	AuthLimiter *middleware.RateLimiter
}

// NewContainer loads configuration and builds the dependency graph bottom up:
// infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	if err := c.initConfig(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("[CONTAINER] dependencies initialized")
	return c, nil
}

func (c *Container) initConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

func (c *Container) initInfrastructure() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// PostgreSQL
	c.DB = database.NewPostgresDB(c.Config.Database)
	if err := c.DB.Connect(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	// Redis: sessions and profile cache share one client
	c.Redis = cache.NewRedisClient(c.Config.Redis)
	if err := cache.Connect(ctx, c.Redis); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	c.Cache = cache.NewRedisCache(c.Redis, "serialfic:")
	c.Sessions = session.NewManager(c.Redis, c.Config.Session)

	host, err := NewImageHost(ctx, c.Config)
	if err != nil {
		return fmt.Errorf("image host: %w", err)
	}
	c.Images = host

	if c.Config.Queue.Enabled {
		c.Queue = queue.NewClient(c.Config.Redis.Addr, c.Config.Redis.Password, c.Config.Redis.DB)
		c.Cleaner = c.Queue
	} else {
		log.Warn().Msg("[QUEUE] disabled, replaced images will not be deleted")
		c.Cleaner = queue.Noop{}
	}

	c.AuthLimiter = middleware.NewRateLimiter(c.Config.Auth.RateLimit, c.Config.Auth.RateBurst)
	return nil
}

// NewImageHost picks the upload backend named by IMAGE_HOST. The worker uses
// it too, to delete what the API uploaded.
func NewImageHost(ctx context.Context, cfg *config.Config) (imagehost.Host, error) {
	switch cfg.ImageHost.Provider {
	case "imgbb":
		log.Info().Msg("[IMAGES] using imgbb")
		return imagehost.NewImgbb(cfg.ImageHost.ImgbbURL, cfg.ImageHost.ImgbbKey, cfg.ImageHost.Expiration), nil
	default:
		store, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			return nil, err
		}
		log.Info().Str("bucket", cfg.MinIO.Bucket).Msg("[IMAGES] using minio")
		return imagehost.NewMinIO(store, storage.NewImageProcessor()), nil
	}
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.TagRepo = tagRepo.NewPostgresRepository(pool)
	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.ChapterRepo = chapterRepo.NewPostgresRepository(pool)
	c.CommentRepo = commentRepo.NewPostgresRepository(pool)
	c.SaveRepo = saveRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.Visibility = visibility.NewPolicy(c.BookRepo)

	c.UserService = userService.NewUserService(c.UserRepo, c.Sessions, c.Images, c.Cleaner, c.Cache, c.Config.Auth)
	c.TagService = tagService.NewTagService(c.TagRepo, c.Cache)

	wrapper := bookService.NewWrapper(c.BookRepo, c.UserService)
	c.BookService = bookService.NewBookService(c.BookRepo, wrapper, c.UserService, c.Visibility, c.Images, c.Cleaner)

	c.ChapterService = chapterService.NewChapterService(c.ChapterRepo, c.Visibility)
	// The chapter repository doubles as the comment domain's chapter lookup.
	c.CommentService = commentService.NewCommentService(c.CommentRepo, c.ChapterRepo, c.Visibility)
	c.SaveService = saveService.NewSaveService(c.SaveRepo, c.BookService)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService, c.Sessions)
	c.TagHandler = tagHandler.NewTagHandler(c.TagService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.ChapterHandler = chapterHandler.NewChapterHandler(c.ChapterService)
	c.CommentHandler = commentHandler.NewCommentHandler(c.CommentService)
	c.SaveHandler = saveHandler.NewSaveHandler(c.SaveService)
}

// Cleanup releases connections. Safe on a partially built container.
func (c *Container) Cleanup() {
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Warn().Err(err).Msg("[QUEUE] close")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("[REDIS] close")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	log.Info().Msg("[CONTAINER] cleanup completed")
}
