// Package server exposes the aggregation pipeline over HTTP.
package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"newsroom/news"
	"newsroom/registry"
)

// newsUnavailable is the only error detail a caller ever sees; causes stay
// in the logs.
const newsUnavailable = "Failed to load news."

type ServerConfig struct {

	// The registry backing the public feed listing
	Registry *registry.Registry

	// The aggregator serving the news endpoint
	Aggregator *news.Aggregator
}

// Returns a fiber.App instance serving the newsroom HTTP API
func Server(config *ServerConfig) *fiber.App {

	app := fiber.New(fiber.Config{
		// Panics and unhandled errors surface as the generic error shape,
		// never as internals.
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := newsUnavailable
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				if code != fiber.StatusInternalServerError {
					message = e.Message
				}
			}
			log.WithFields(log.Fields{
				"path":  c.Path(),
				"error": err,
			}).Error("Request failed")
			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"latency": time.Since(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())
	app.Use(recover.New())

	// The browser client is served from a different origin
	app.Use(cors.New())

	// Public feed listing: id, name and categories only, in registry order
	app.Get("/api/feeds", func(c *fiber.Ctx) error {
		return c.JSON(config.Registry.Public())
	})

	app.Get("/api/news", func(c *fiber.Ctx) error {
		feedIDs := splitFeedIDs(c.Query("feeds", ""))
		category := strings.TrimSpace(c.Query("category", ""))

		// A missing or non-numeric limit falls through to the aggregator's
		// default rather than erroring.
		limit, err := strconv.Atoi(c.Query("limit", ""))
		if err != nil {
			limit = 0
		}

		articles, err := config.Aggregator.GetNews(c.Context(), feedIDs, category, limit)
		if err != nil {
			log.WithFields(log.Fields{
				"feeds": feedIDs,
				"error": err,
			}).Error("News aggregation failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": newsUnavailable})
		}

		return c.JSON(articles)
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return app
}

// splitFeedIDs parses the comma-separated feeds query parameter. An empty or
// blank parameter yields nil, which the aggregator reads as "all feeds".
func splitFeedIDs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}
