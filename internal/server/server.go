package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/qolzam/hcaptcha/internal/middleware/requestid"
	"github.com/qolzam/hcaptcha/internal/pkg/log"
	platformconfig "github.com/qolzam/hcaptcha/internal/platform/config"
	"github.com/qolzam/hcaptcha/middleware"
	"github.com/qolzam/hcaptcha/verify"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Handlers holds all the handlers the router needs.
type Handlers struct {
	Page   *PageHandler
	Signup *SignupHandler
	Login  *LoginHandler
	Verify *VerifyHandler
}

// NewApp wires the demo application.
func NewApp(cfg *platformconfig.Config, verifier verify.Verifier, secret verify.Secret) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: errorHandler,
	})
	app.Use(requestid.New())

	users := NewUserStore()
	handlers := &Handlers{
		Page:   NewPageHandler(cfg.Captcha.SiteKey),
		Signup: NewSignupHandler(users),
		Login:  NewLoginHandler(users),
		Verify: NewVerifyHandler(verifier, secret, cfg.Captcha.SiteKey),
	}
	RegisterRoutes(app, handlers, cfg, middleware.FiberConfig{
		Config: middleware.Config{
			Verifier:     verifier,
			Secret:       secret,
			SiteKey:      cfg.Captcha.SiteKey,
			SkipRemoteIP: cfg.Captcha.SkipRemoteIP,
			Timeout:      cfg.Captcha.Timeout,
		},
	})
	return app
}

// RegisterRoutes mounts the handlers on app.
func RegisterRoutes(app *fiber.App, handlers *Handlers, cfg *platformconfig.Config, captcha middleware.FiberConfig) {
	app.Get("/", handlers.Page.Handle)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	if cfg.Captcha.Disabled {
		log.Warn("captcha verification is disabled, /api/signup and /api/login are unprotected and /api/verify is not served")
		api.Post("/signup", handlers.Signup.Handle)
		api.Post("/login", handlers.Login.Handle)
		return
	}

	guard := middleware.Fiber(captcha)
	api.Post("/verify", handlers.Verify.Handle)
	api.Post("/signup", guard, handlers.Signup.Handle)
	api.Post("/login", guard, handlers.Login.Handle)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	log.ErrorWithContext(c.UserContext(), "path: %s, error: %v, code: %d", c.Path(), err, code)

	if len(c.Response().Body()) > 0 {
		return nil
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
