package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"vasilestie-backend/internal/config"
	infraCache "vasilestie-backend/internal/infrastructure/cache"
	"vasilestie-backend/internal/infrastructure/database"
	"vasilestie-backend/pkg/cache"
	"vasilestie-backend/pkg/jwt"

	"vasilestie-backend/internal/domains/audit"
	auditHandler "vasilestie-backend/internal/domains/audit/handler"
	auditRepo "vasilestie-backend/internal/domains/audit/repository"

	"vasilestie-backend/internal/domains/user"
	userHandler "vasilestie-backend/internal/domains/user/handler"
	userRepo "vasilestie-backend/internal/domains/user/repository"
	userService "vasilestie-backend/internal/domains/user/service"

	"vasilestie-backend/internal/domains/craftsman"
	craftsmanHandler "vasilestie-backend/internal/domains/craftsman/handler"
	craftsmanRepo "vasilestie-backend/internal/domains/craftsman/repository"
	craftsmanService "vasilestie-backend/internal/domains/craftsman/service"

	"vasilestie-backend/internal/domains/blog"
	blogHandler "vasilestie-backend/internal/domains/blog/handler"
	blogRepo "vasilestie-backend/internal/domains/blog/repository"
	blogService "vasilestie-backend/internal/domains/blog/service"

	"vasilestie-backend/internal/domains/newsletter"
	newsletterHandler "vasilestie-backend/internal/domains/newsletter/handler"
	newsletterRepo "vasilestie-backend/internal/domains/newsletter/repository"
	newsletterService "vasilestie-backend/internal/domains/newsletter/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	// Repositories
	AuditRepo      audit.Repository
	UserRepo       user.Repository
	CraftsmanRepo  craftsman.Repository
	BlogRepo       blog.Repository
	NewsletterRepo newsletter.Repository

	// Services
	UserService       user.Service
	CraftsmanService  craftsman.Service
	BlogService       blog.Service
	NewsletterService newsletter.Service

	// Handlers
	AuditHandler      *auditHandler.AuditHandler
	UserHandler       *userHandler.UserHandler
	CraftsmanHandler  *craftsmanHandler.CraftsmanHandler
	BlogHandler       *blogHandler.BlogHandler
	NewsletterHandler *newsletterHandler.NewsletterHandler
}

// NewContainer builds the dependency graph in order: config,
// infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// Step 1: configuration
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// Step 2: database
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db
	log.Println("✅ PostgreSQL connected")

	// Step 3: redis cache
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	}
	c.Cache = redisCache
	log.Println("✅ Redis connected")

	// Step 4: jwt manager
	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)

	// Step 5: repositories
	log.Println("📦 Initializing repositories...")

	c.AuditRepo = auditRepo.NewPostgresRepository(db.Pool)
	c.UserRepo = userRepo.NewPostgresRepository(db.Pool)
	c.CraftsmanRepo = craftsmanRepo.NewPostgresRepository(db.Pool, c.Cache)
	c.BlogRepo = blogRepo.NewPostgresRepository(db.Pool)
	c.NewsletterRepo = newsletterRepo.NewPostgresRepository(db.Pool)

	// Step 6: services
	log.Println("⚙️  Initializing services...")

	c.UserService = userService.NewUserService(c.UserRepo, c.AuditRepo, db.Pool, c.JWTManager)
	c.CraftsmanService = craftsmanService.NewCraftsmanService(c.CraftsmanRepo, c.AuditRepo, db.Pool)
	c.BlogService = blogService.NewBlogService(c.BlogRepo, c.AuditRepo, db.Pool)
	c.NewsletterService = newsletterService.NewNewsletterService(c.NewsletterRepo)

	// Step 7: handlers
	log.Println("🌐 Initializing handlers...")

	c.AuditHandler = auditHandler.NewAuditHandler(c.AuditRepo)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.CraftsmanHandler = craftsmanHandler.NewCraftsmanHandler(c.CraftsmanService)
	c.BlogHandler = blogHandler.NewBlogHandler(c.BlogService)
	c.NewsletterHandler = newsletterHandler.NewNewsletterHandler(c.NewsletterService)

	log.Println("✅ DI Container ready")
	return c, nil
}

// HealthCheck verifies the infrastructure dependencies.
func (c *Container) HealthCheck(ctx context.Context) error {
	if err := c.DB.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Cache.Ping(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Cleanup releases infrastructure resources on shutdown.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
		log.Println("✅ Database connections closed")
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("⚠️  Failed to close Redis: %v", err)
			} else {
				log.Println("✅ Redis connections closed")
			}
		}
	}

	log.Println("✅ Container cleanup completed")
}
