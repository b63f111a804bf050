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

	"github.com/jhoicas/tms-settlements/internal/application/auth"
	"github.com/jhoicas/tms-settlements/internal/application/notification"
	"github.com/jhoicas/tms-settlements/internal/application/settlement"
	infralock "github.com/jhoicas/tms-settlements/internal/infrastructure/lock"
	infrapdf "github.com/jhoicas/tms-settlements/internal/infrastructure/pdf"
	"github.com/jhoicas/tms-settlements/internal/infrastructure/postgres"
	"github.com/jhoicas/tms-settlements/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/tms-settlements/internal/interfaces/http"
	"github.com/jhoicas/tms-settlements/pkg/config"
	"github.com/jhoicas/tms-settlements/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	loc, err := time.LoadLocation(cfg.Settlement.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("tz", cfg.Settlement.Timezone).Msg("zona horaria inválida")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	driverRepo := postgres.NewDriverRepository(pool)
	loadRepo := postgres.NewLoadRepository(pool)
	settlementRepo := postgres.NewSettlementRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	activityRepo := postgres.NewActivityLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Lock de corrida: Redis si hay REDIS_ADDR (varias instancias), si no en memoria.
	var locker settlement.RunLocker
	if cfg.Redis.Addr != "" {
		rdb, err := infralock.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = infralock.NewRedisRunLocker(rdb)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío, usando lock en memoria (una sola instancia)")
		locker = infralock.NewMemoryRunLocker()
	}

	executionLog := settlement.NewExecutionLog(activityRepo, log.Named("audit"))
	settlementSvc := settlement.NewService(settlement.Deps{
		Companies:   companyRepo,
		Settlements: settlementRepo,
		Filter:      settlement.NewEligibilityFilter(driverRepo, loadRepo, log.Named("eligibility")),
		Builder:     settlement.NewLoadPayBuilder(driverRepo, txRunner),
		Notifier:    notification.NewSettlementFanOut(userRepo, notificationRepo, log.Named("notifications")),
		Audit:       executionLog,
		Locker:      locker,
		LockTTL:     time.Duration(cfg.Settlement.LockTTLMinutes) * time.Minute,
		Location:    loc,
		Log:         log.Named("settlements"),
	})
	queryUC := settlement.NewQueryUseCase(settlementRepo, companyRepo, driverRepo, loadRepo, infrapdf.NewStatementGenerator())
	notificationUC := notification.NewUseCase(notificationRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	var job *scheduler.SettlementJob
	if cfg.Settlement.CronEnabled {
		job = scheduler.NewSettlementJob(settlementSvc, cfg.Settlement.Cron, loc,
			time.Duration(cfg.Settlement.LockTTLMinutes)*time.Minute, log.Named("scheduler"))
		if err := job.Start(); err != nil {
			log.Fatal().Err(err).Str("cron", cfg.Settlement.Cron).Msg("registrar job de liquidaciones")
		}
	} else {
		log.Info().Msg("job programado deshabilitado (SETTLEMENT_CRON_ENABLED=false)")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Minute * 5, // una corrida manual puede tardar
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "TMS Settlements API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_down", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Auth:          authUC,
		Settlements:   settlementSvc,
		Queries:       queryUC,
		Notifications: notificationUC,
		RunHistory:    executionLog,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if job != nil {
		job.Stop(shutdownCtx)
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
