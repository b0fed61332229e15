package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"bookreview-backend/internal/config"
	infraCache "bookreview-backend/internal/infrastructure/cache"
	"bookreview-backend/internal/infrastructure/database"
	"bookreview-backend/internal/infrastructure/storage"
	"bookreview-backend/pkg/cache"
	"bookreview-backend/pkg/jwt"

	"bookreview-backend/internal/domains/rating"
	ratingJob "bookreview-backend/internal/domains/rating/job"

	bookHandler "bookreview-backend/internal/domains/book/handler"
	bookRepo "bookreview-backend/internal/domains/book/repository"
	bookService "bookreview-backend/internal/domains/book/service"

	reviewHandler "bookreview-backend/internal/domains/review/handler"
	reviewRepo "bookreview-backend/internal/domains/review/repository"
	reviewService "bookreview-backend/internal/domains/review/service"

	userHandler "bookreview-backend/internal/domains/user/handler"
	userRepo "bookreview-backend/internal/domains/user/repository"
	userService "bookreview-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds the whole dependency graph. Everything in it is a
// singleton built once at startup.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.MongoDB
	Cache      cache.Cache
	Storage    *storage.MinIOStorage
	JWTManager *jwt.Manager

	// Repositories
	UserRepo   userRepo.UserRepository
	BookRepo   bookRepo.BookRepository
	ReviewRepo reviewRepo.ReviewRepository

	// Rating aggregation
	Aggregator       *rating.Aggregator
	ReconcileHandler *ratingJob.ReconcileRatingsHandler

	// Services
	UserService   userService.UserService
	BookService   bookService.BookService
	ReviewService reviewService.ReviewService

	// HTTP handlers
	UserHandler   *userHandler.UserHandler
	BookHandler   *bookHandler.BookHandler
	ReviewHandler *reviewHandler.ReviewHandler
}

// ========================================
// CONSTRUCTOR
// ========================================

// NewContainer builds the dependency graph in order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	db := database.NewMongoDB(cfg.Mongo)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}
	c.DB = db
	log.Println("✅ MongoDB connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)

	// Redis failure is not fatal; the app just runs uncached.
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("✅ Redis connected")
		}
	}
	c.Cache = redisCache

	// ========================================
	// STEP 4: INITIALIZE STORAGE
	// ========================================
	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = minioStorage
	log.Println("✅ Object storage ready")

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// ========================================
	// STEP 5: INITIALIZE REPOSITORIES
	// ========================================
	c.UserRepo = userRepo.NewMongoRepository(db)
	c.BookRepo = bookRepo.NewMongoRepository(db)
	c.ReviewRepo = reviewRepo.NewMongoRepository(db)

	// ========================================
	// STEP 6: INITIALIZE RATING AGGREGATION
	// ========================================
	c.Aggregator = rating.NewAggregator(c.ReviewRepo, c.BookRepo)
	c.ReconcileHandler = ratingJob.NewReconcileRatingsHandler(c.BookRepo, c.Aggregator)

	// ========================================
	// STEP 7: INITIALIZE SERVICES
	// ========================================
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.BookService = bookService.NewBookService(
		c.BookRepo,
		c.ReviewRepo,
		c.Cache,
		c.Storage,
		storage.NewImageProcessor(),
	)
	c.ReviewService = reviewService.NewReviewService(
		c.ReviewRepo,
		c.BookRepo,
		c.UserRepo,
		c.Aggregator,
		c.Cache,
	)

	// ========================================
	// STEP 8: INITIALIZE HANDLERS
	// ========================================
	c.UserHandler = userHandler.NewUserHandler(c.UserService, c.ReviewService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)

	log.Println("🎉 Container initialized")
	return c, nil
}

// Cleanup releases held resources. Call it on shutdown.
func (c *Container) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if c.DB != nil {
		if err := c.DB.Close(ctx); err != nil {
			log.Printf("⚠️  Failed to close mongodb: %v", err)
		}
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("⚠️  Failed to close redis: %v", err)
		}
	}
}
