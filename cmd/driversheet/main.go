package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/driversheet/driversheet-web/app/controllers"
	"github.com/driversheet/driversheet-web/internal/pkg/apidocs"
	"github.com/driversheet/driversheet-web/internal/pkg/backend"
	"github.com/driversheet/driversheet-web/internal/pkg/cache"
	"github.com/driversheet/driversheet-web/internal/pkg/config"
	"github.com/driversheet/driversheet-web/internal/pkg/env"
	"github.com/driversheet/driversheet-web/internal/pkg/identity"
	"github.com/driversheet/driversheet-web/internal/pkg/router"
	"github.com/driversheet/driversheet-web/internal/pkg/security"
	"github.com/driversheet/driversheet-web/internal/pkg/session"
	"github.com/driversheet/driversheet-web/views"
)

func main() {
	app, cfg := NewApplication()
	err := app.Listen(cfg.ListenAddr())
	log.Fatal(err)
}

func NewApplication() (*fiber.App, *config.Config) {
	env.SetupEnvFile()

	cfg, err := config.Load()
	if err != nil {
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			log.Fatalf("cannot start: %v", cfgErr)
		}
		log.Fatal(err)
	}

	keys, err := security.DeriveKeys(cfg.SessionSecret)
	if err != nil {
		log.Fatal(err)
	}
	session.SetTokenCodec(identity.NewCodec(keys.TokenSigning, cfg.SessionTTL))

	if cfg.SessionStorage == "redis" {
		cache.SetupCache(cfg)
	}

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/driversheet to project root
		"../../../", // Fallback
	}

	// Find the correct base path
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName:      "DriverSheet",
		Views:        views.NewEngine(cfg.IsDev()),
		ErrorHandler: errorHandler,
	})

	// recovery and logging
	app.Use(
		recover.New(),
		requestid.New(requestid.Config{
			Generator: uuid.NewString,
		}),
		logger.New(logger.Config{
			Format: "${time} | ${status} | ${latency} | ${locals:requestid} | ${method} | ${path} | ${error}\n",
		}),
		encryptcookie.New(encryptcookie.Config{
			Key:    keys.CookieKey(),
			Except: []string{router.CSRFCookieName},
		}),
	)

	// fiber metrics
	if cfg.MetricsUser != "" {
		app.Get("/metrics", basicauth.New(basicauth.Config{
			Users: map[string]string{
				cfg.MetricsUser: cfg.MetricsPassword,
			},
		}), monitor.New(monitor.Config{Title: "DriverSheet Metrics"}))
	}

	// static files
	app.Static("/", basePath+"public/assets", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// SWAGGER / OPENAPI
	specPath := basePath + apidocs.FilePath
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: specPath,
		Path:     "v1",
		Title:    "DriverSheet API",
	}
	docs, err := apidocs.Load(context.Background(), specPath)
	if err != nil {
		log.Warnw("api request validation disabled", "error", err)
		docs = nil
	} else {
		openAPICfg.Title = docs.Title()
	}
	app.Use(swagger.New(openAPICfg))

	client := backend.NewClientFromConfig(cfg)
	provider := identity.NewProvider(client,
		identity.WithRetryAfter(cfg.SyncRetryAfter),
		identity.WithObserver(func(t identity.Transition) {
			if t.Err != nil {
				log.Warnw("session left unsynced", "from", t.From.String(), "error", t.Err)
			}
		}),
	)

	// ROUTER
	router.InstallRouter(app, router.Dependencies{
		Config:   cfg,
		Provider: provider,
		Logs:     client,
		Docs:     docs,
	})

	log.Infow("driversheet web configured", "env", cfg.AppEnv, "backend", cfg.BackendURL, "sessions", cfg.SessionStorage)
	return app, cfg
}

// errorHandler answers JSON on /api/ and renders the error page elsewhere.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.Errorw("request failed", "path", c.Path(), "requestid", c.Locals("requestid"), "error", err)
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		msg := fiber.NewError(code).Message
		return c.Status(code).JSON(fiber.Map{
			"error":   strings.ReplaceAll(strings.ToLower(msg), " ", "_"),
			"message": msg,
		})
	}

	if rerr := controllers.HandleError(c, code); rerr != nil {
		log.Errorw("failed to render error page", "error", rerr)
		return c.Status(code).SendString(fiber.NewError(code).Message)
	}
	return nil
}
