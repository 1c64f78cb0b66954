package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/certmint/certmint/internal/browser"
	"github.com/certmint/certmint/internal/config"
	"github.com/certmint/certmint/internal/db"
	"github.com/certmint/certmint/internal/repository"
	"github.com/certmint/certmint/internal/service"
	"github.com/certmint/certmint/internal/storage"
)

type App struct {
	Cfg                *config.Config
	DB                 *sqlx.DB
	Storage            storage.Storage
	AuthService        *service.AuthService
	CertificateService *service.CertificateService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	certRepository := repository.NewCertificateRepository(database)

	imageStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	locator := browser.NewLocator(cfg.ChromePath)
	rasterizer := browser.NewRasterizer(locator, cfg.RenderSettleDelay, cfg.RenderTimeout)

	emailService := service.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppName, cfg.IsDevelopment())
	authService := service.NewAuthService(
		cfg.AdminUser,
		cfg.AdminPass,
		cfg.AdminPassHash,
		cfg.SessionSecret,
		cfg.SessionExpiry,
		cfg.IsProduction(),
	)
	certificateService := service.NewCertificateService(
		certRepository,
		imageStorage,
		rasterizer,
		emailService,
		cfg.AppURL,
		cfg.MaxConcurrentRenders,
	)

	return &App{
		Cfg:                cfg,
		DB:                 database,
		Storage:            imageStorage,
		AuthService:        authService,
		CertificateService: certificateService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
