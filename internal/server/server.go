// Package server assembles the fiber application: middleware, error handling
// and every route, wired to one upstream client and one dashboard aggregator.
package server

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/simplyzetax/selva/internal/config"
	"github.com/simplyzetax/selva/internal/dashboard"
	"github.com/simplyzetax/selva/internal/metrics"
	"github.com/simplyzetax/selva/internal/models"
	"github.com/simplyzetax/selva/internal/proxy"
	"github.com/simplyzetax/selva/internal/upstream"
	"github.com/simplyzetax/selva/internal/views"
	"github.com/simplyzetax/selva/internal/web"
)

// AppName is reported by /info and shown in page footers
const AppName = "selva"

const bodyLimit = 32 << 20

// New builds the application for cfg. collector may be nil, in which case a
// private one is created.
func New(cfg *config.AppConfig, collector *metrics.Collector) (*fiber.App, error) {
	if collector == nil {
		collector = metrics.NewCollector(nil)
	}

	engine, err := views.New(cfg.Location())
	if err != nil {
		return nil, err
	}

	info := models.Info{Name: AppName, Version: cfg.AppVersion}

	app := fiber.New(fiber.Config{
		AppName:               AppName,
		Views:                 engine,
		BodyLimit:             bodyLimit,
		ReadBufferSize:        8096,
		WriteBufferSize:       8096,
		ErrorHandler:          errorHandler(info),
		DisableStartupMessage: true,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(requestLogger)
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))

	if cfg.Metrics.Enabled {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(collector.Handler()))
	}

	client := upstream.New(
		cfg.Upstream.BaseURL,
		cfg.Upstream.ReadTimeout,
		cfg.Upstream.WriteTimeout,
		upstream.WithObserver(collector),
	)

	forwarder := &proxy.Forwarder{
		BaseURL:      cfg.Upstream.BaseURL,
		ReadTimeout:  cfg.Upstream.ReadTimeout,
		WriteTimeout: cfg.Upstream.WriteTimeout,
		Observer:     collector,
	}

	aggregator := dashboard.New(client, dashboard.Options{
		CacheSize: cfg.Dashboard.CustomerCacheSize,
		CacheTTL:  cfg.Dashboard.CustomerCacheTTL,
		Location:  cfg.Location(),
		Observer:  collector,
	})

	web.New(client, forwarder, aggregator, info).Register(app)

	return app, nil
}

// requestLogger logs one line per request once the handler chain returned
func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	var fe *fiber.Error
	if err != nil && errors.As(err, &fe) {
		status = fe.Code
	} else if err != nil {
		status = fiber.StatusInternalServerError
	}

	log.Info("request",
		"id", c.Locals(requestid.ConfigDefault.ContextKey),
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"latency", time.Since(start).Round(time.Microsecond),
	)
	return err
}

// errorHandler renders the error page for browser navigations and a JSON body otherwise
func errorHandler(info models.Info) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		if code >= fiber.StatusInternalServerError {
			log.Errorf("%s %s failed: %v", c.Method(), c.Path(), err)
		}

		c.Status(code)
		if wantsHTML(c) {
			renderErr := c.Render("error", fiber.Map{
				"Title":   "Error",
				"AppName": info.Name,
				"Version": info.Version,
				"Code":    code,
				"Message": err.Error(),
			}, views.Layout)
			if renderErr == nil {
				return nil
			}
			log.Errorf("failed to render error page: %v", renderErr)
		}

		return c.JSON(fiber.Map{
			"ok":    false,
			"code":  code,
			"error": err.Error(),
		})
	}
}

func wantsHTML(c *fiber.Ctx) bool {
	return c.Method() == fiber.MethodGet && strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMETextHTML)
}
