package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/upb/hr-platform/config"
	"github.com/upb/hr-platform/middleware"
	"github.com/upb/hr-platform/repositories"
	"github.com/upb/hr-platform/repositories/postgres"
	"github.com/upb/hr-platform/services"
	"github.com/upb/hr-platform/services/absence"
	"github.com/upb/hr-platform/services/enrichment"
	"github.com/upb/hr-platform/services/feedback"
	"github.com/upb/hr-platform/services/profile"
	"github.com/upb/hr-platform/token"
	"go.uber.org/zap"
)

// Dependencies holds everything one service binary needs.
// Fields a service does not use stay nil.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Users           repositories.UserRepository
	AbsenceRequests repositories.AbsenceRequestRepository
	Feedback        repositories.FeedbackRepository
	TxManager       repositories.TransactionManager

	// Auth
	Codec          *token.Codec
	Hasher         services.PasswordHasher
	AuthMiddleware *middleware.AuthMiddleware
	LoginLimiter   *middleware.IPRateLimiter
	Authenticator  *services.Authenticator

	// Domain services
	Profiles        *profile.ProfileService
	Absences        *absence.AbsenceService
	FeedbackService *feedback.FeedbackService
	Polisher        enrichment.Polisher

	cancel context.CancelFunc
}

// NewDependencies wires the components of cfg.Service
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	bgCtx, cancel := context.WithCancel(context.Background())
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
		cancel: cancel,
	}

	var err error
	switch cfg.Service {
	case config.ServiceAuth:
		err = deps.initAuthService(ctx, bgCtx)
	case config.ServiceHR:
		err = deps.initHRService(ctx)
	case config.ServiceEnrichment:
		err = deps.initEnrichmentService()
	default:
		err = fmt.Errorf("unknown service %q", cfg.Service)
	}
	if err != nil {
		_ = deps.Close(ctx)
		return nil, err
	}

	logger.Info("all dependencies initialized successfully", zap.String("service", string(cfg.Service)))
	return deps, nil
}

func (d *Dependencies) initAuthService(ctx, bgCtx context.Context) error {
	if err := d.initDatabase(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := d.initToken(); err != nil {
		return fmt.Errorf("failed to initialize token codec: %w", err)
	}

	d.Hasher = services.NewBcryptHasher(d.Config.Auth.BcryptCost)
	authenticator, err := services.NewAuthenticator(d.Users, d.Codec, d.Hasher, d.Config.Auth.TokenTTL, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize authenticator: %w", err)
	}
	d.Authenticator = authenticator
	d.LoginLimiter = middleware.NewIPRateLimiter(bgCtx, d.Config.Auth.LoginRateLimit, d.Config.Auth.LoginBurst, d.Logger)

	if d.Config.Seed.DemoUsers {
		if err := SeedDemoUsers(ctx, d.Users, d.Hasher, d.Config.Seed.DemoPassword, d.Logger); err != nil {
			return fmt.Errorf("failed to seed demo users: %w", err)
		}
	}
	return nil
}

func (d *Dependencies) initHRService(ctx context.Context) error {
	if err := d.initDatabase(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := d.initToken(); err != nil {
		return fmt.Errorf("failed to initialize token codec: %w", err)
	}

	polisher, err := NewPolisher(d.Config, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize enrichment: %w", err)
	}
	d.Polisher = polisher

	d.Profiles = profile.NewProfileService(d.Users, d.Logger)
	d.Absences = absence.NewAbsenceService(d.AbsenceRequests, d.TxManager, d.Logger)
	d.FeedbackService = feedback.NewFeedbackService(d.Users, d.Feedback, d.Polisher, d.Logger)
	return nil
}

func (d *Dependencies) initEnrichmentService() error {
	proxy, err := newProxy(d.Config.Enrichment, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize enrichment proxy: %w", err)
	}
	d.Polisher = proxy
	return nil
}

// initDatabase opens the pool, creates the schema and builds the repositories
func (d *Dependencies) initDatabase(ctx context.Context) error {
	factory, err := postgres.NewRepositoryFactory(d.Config, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}
	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if err := d.DB.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	repos := factory.NewRepositories()
	d.Users = repos.Users
	d.AbsenceRequests = repos.AbsenceRequests
	d.Feedback = repos.Feedback
	d.TxManager = factory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
	return nil
}

func (d *Dependencies) initToken() error {
	codec, err := token.NewCodec(d.Config.Auth.JWTSecret,
		token.WithIssuer(d.Config.Auth.JWTIssuer),
		token.WithLeeway(d.Config.Auth.ClockSkew))
	if err != nil {
		return err
	}
	d.Codec = codec
	d.AuthMiddleware = middleware.NewAuthMiddleware(codec, d.Logger)
	return nil
}

// NewPolisher picks how hr-service reaches the enrichment proxy: in-process
// when a backend URL is configured, otherwise through enrichment-service.
func NewPolisher(cfg *config.Config, logger *zap.Logger) (enrichment.Polisher, error) {
	if cfg.Enrichment.Enabled() {
		proxy, err := newProxy(cfg.Enrichment, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("enrichment runs in-process", zap.String("model", proxy.Model()))
		return proxy, nil
	}
	if cfg.EnrichmentService.URL == "" {
		return nil, errors.New("no enrichment backend or service configured")
	}
	logger.Info("enrichment delegated to enrichment-service", zap.String("url", cfg.EnrichmentService.URL))
	return enrichment.NewClient(cfg.EnrichmentService.URL, cfg.EnrichmentService.Timeout, logger), nil
}

func newProxy(cfg config.EnrichmentConfig, logger *zap.Logger) (*enrichment.Proxy, error) {
	shape, err := enrichment.ParseResponseShape(cfg.ResponseShape)
	if err != nil {
		return nil, err
	}
	return enrichment.NewProxy(enrichment.Config{
		BaseURL:       cfg.APIURL,
		APIKey:        cfg.APIKey,
		Model:         cfg.Model,
		Shape:         shape,
		Timeout:       cfg.Timeout,
		MaxRetries:    cfg.MaxRetries,
		BackoffBase:   cfg.BackoffBase,
		MaxConcurrent: cfg.MaxConcurrent,
		RedactPII:     cfg.RedactPII,
	}, logger)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	if d.cancel != nil {
		d.cancel()
	}

	var errs []error
	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	_ = d.Logger.Sync()

	return errors.Join(errs...)
}
