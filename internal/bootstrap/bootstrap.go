// Package bootstrap wires configuration, storage, services and
// controllers together at startup.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/matheus/courseplatform/docs" // generated swagger docs
	appControllers "github.com/matheus/courseplatform/internal/app/controllers"
	appMigrations "github.com/matheus/courseplatform/internal/app/migrations"
	appRepos "github.com/matheus/courseplatform/internal/app/repositories"
	appRoutes "github.com/matheus/courseplatform/internal/app/routes"
	appServices "github.com/matheus/courseplatform/internal/app/services"
	"github.com/matheus/courseplatform/internal/config"
	"github.com/matheus/courseplatform/internal/db"
	"github.com/matheus/courseplatform/internal/idempotency"
	appMiddleware "github.com/matheus/courseplatform/internal/middleware"
	"github.com/matheus/courseplatform/internal/payment"
	pkgAuth "github.com/matheus/courseplatform/internal/pkg/auth"
	"github.com/matheus/courseplatform/internal/pkg/certificate"
	"github.com/matheus/courseplatform/internal/pkg/email"
	"github.com/matheus/courseplatform/internal/pkg/filestorage"
	"github.com/matheus/courseplatform/internal/pkg/logger"
	"github.com/matheus/courseplatform/internal/seed"
)

// certificateIssuer is printed on generated completion certificates
const certificateIssuer = "Plataforma de Cursos"

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService           *appServices.AuthService
	UserService           *appServices.UserService
	CourseService         *appServices.CourseService
	QuestionService       *appServices.QuestionService
	PurchaseService       *appServices.PurchaseService
	CertificateService    *appServices.CertificateService
	AuthController        *appControllers.AuthController
	UserController        *appControllers.UserController
	CourseController      *appControllers.CourseController
	QuestionController    *appControllers.QuestionController
	PurchaseController    *appControllers.PurchaseController
	CertificateController *appControllers.CertificateController
	AuthMiddleware        *appMiddleware.AuthMiddleware
	Repos                 *appRepos.Repositories
	JWTService            *pkgAuth.JWTService
	FileStorage           *filestorage.LocalStorage
	Logger                zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations
// and seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection established")

	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations applied")

	if err := seed.CreateDefaultData(context.Background(), database.Pool, cfg, lgr); err != nil {
		// Startup continues; the admin can be created manually
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway")
	}

	return database, nil
}

// SetupRedis establishes the Redis connection used for webhook claims
// and token revocation.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) (*db.RedisDB, error) {
	redisDB, err := db.NewRedisDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		return nil, err
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
	return redisDB, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, redisDB *db.RedisDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.UploadDir, cfg.Storage.BaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenDuration(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	emailService := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  certificateIssuer,
		FromEmail: cfg.SMTP.From,
		UseTLS:    cfg.SMTP.Port == 465,
		ClientURL: cfg.Client.BaseURL,
	}, lgr)

	gateway := payment.NewStripeGateway(payment.StripeConfig{
		SecretKey:     cfg.Payment.StripeSecretKey,
		WebhookSecret: cfg.Payment.StripeWebhookSecret,
		Currency:      cfg.Payment.Currency,
		SuccessURL:    cfg.Payment.SuccessURL,
		CancelURL:     cfg.Payment.CancelURL,
	})

	guard := idempotency.NewRedisGuard(redisDB.Client)
	tokenRevoker := idempotency.NewTokenRevoker(redisDB.Client)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.PasswordResetTokenRepository,
		deps.JWTService,
		tokenRevoker,
		emailService,
		lgr,
	)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, deps.FileStorage, lgr)
	deps.CourseService = appServices.NewCourseService(deps.Repos.CourseRepository, lgr)
	deps.QuestionService = appServices.NewQuestionService(deps.Repos.QuestionRepository, deps.Repos.CourseRepository, lgr)
	deps.PurchaseService = appServices.NewPurchaseService(
		deps.Repos.UserRepository,
		deps.Repos.CourseRepository,
		deps.Repos.EntitlementRepository,
		gateway,
		guard,
		emailService,
		cfg.ClaimTTLDuration(),
		lgr,
	)
	deps.CertificateService = appServices.NewCertificateService(
		deps.Repos.UserRepository,
		deps.Repos.CourseRepository,
		deps.Repos.EntitlementRepository,
		certificate.NewGenerator(certificateIssuer),
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthService.IsTokenRevoked)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.UserController = appControllers.NewUserController(deps.UserService, lgr)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService, lgr)
	deps.QuestionController = appControllers.NewQuestionController(deps.QuestionService, lgr)
	deps.PurchaseController = appControllers.NewPurchaseController(deps.PurchaseService, lgr)
	deps.CertificateController = appControllers.NewCertificateController(deps.CertificateService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.Default()

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.CourseController,
		deps.QuestionController,
		deps.PurchaseController,
		deps.CertificateController,
		deps.AuthMiddleware,
	)

	return router
}
