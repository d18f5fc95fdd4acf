package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/ampliart/ampliart-api/internal/application/analytics"
	"github.com/ampliart/ampliart-api/internal/application/auth"
	"github.com/ampliart/ampliart-api/internal/application/budget"
	"github.com/ampliart/ampliart-api/internal/application/inventory"
	"github.com/ampliart/ampliart-api/internal/application/usecase"
	"github.com/ampliart/ampliart-api/internal/infrastructure/cache"
	infrapdf "github.com/ampliart/ampliart-api/internal/infrastructure/pdf"
	"github.com/ampliart/ampliart-api/internal/infrastructure/postgres"
	"github.com/ampliart/ampliart-api/internal/infrastructure/report"
	httpRouter "github.com/ampliart/ampliart-api/internal/interfaces/http"
	"github.com/ampliart/ampliart-api/pkg/config"
	"github.com/ampliart/ampliart-api/pkg/logger"
	"github.com/ampliart/ampliart-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("timezone", cfg.App.Timezone).
		Msg("iniciando aplicação")

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("fuso horário")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	version, changed, err := postgres.Migrate(cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("migrações")
	}
	if changed {
		log.Info().Uint("version", version).Msg("migrações aplicadas")
	}

	// Redis opcional: sin URL o sin conexión, el análisis va siempre al banco.
	var (
		analysisCache appanalytics.AnalysisCache
		salesCache    budget.SalesCache
	)
	if cfg.Redis.Enabled() {
		client, err := cache.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("redis indisponível, cache desativado")
		} else {
			defer client.Close()
			c := cache.New(client, cfg.Redis.TTL)
			analysisCache, salesCache = c, c
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	m := metrics.New()
	format := report.NewFormat(cfg.Report)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name, format)

	productUC := usecase.NewProductUseCase(productRepo, categoryRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, movementRepo).WithMetrics(m)
	budgetUC := budget.NewUseCase(txRunner, budgetRepo, salesCache, loc, log).WithMetrics(m)
	budgetPDFUC := budget.NewPDFUseCase(budgetRepo, pdfGenerator)
	analyticsUC := appanalytics.NewUseCase(analyticsRepo, analyticsRepo, appanalytics.Options{
		Cache:         analysisCache,
		CSV:           report.NewCSVRenderer(format),
		PDF:           pdfGenerator,
		Location:      loc,
		LowStockLimit: cfg.Report.LowStockLimit,
		Logger:        log,
		Metrics:       m,
	})
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	if cfg.Auth.AdminEmail != "" {
		created, err := authUC.EnsureAdmin(ctx, auth.AdminConfig{
			Email:        cfg.Auth.AdminEmail,
			Name:         cfg.Auth.AdminName,
			PasswordHash: cfg.Auth.AdminPasswordHash,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("criar administrador")
		}
		if created {
			log.Info().Str("email", cfg.Auth.AdminEmail).Msg("administrador criado")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.NewErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ampliart API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:          cfg.App.Name,
		ProductUC:        productUC,
		CategoryUC:       categoryUC,
		RegisterMovement: registerMovementUC,
		BudgetUC:         budgetUC,
		BudgetPDF:        budgetPDFUC,
		AnalyticsUC:      analyticsUC,
		AuthUC:           authUC,
		JWTSecret:        cfg.JWT.Secret,
		Metrics:          m,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, fechando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("desligamento do servidor")
	}

	log.Info().Msg("aplicação parada")
}
