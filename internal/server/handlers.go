package server

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofrs/uuid"
	gopass "github.com/nbutton23/zxcvbn-go"

	captchaErrors "github.com/qolzam/hcaptcha/errors"
	"github.com/qolzam/hcaptcha/internal/pkg/log"
	"github.com/qolzam/hcaptcha/middleware"
	"github.com/qolzam/hcaptcha/verify"
)

var pageTemplate = template.Must(template.New("signup").Parse(`<!doctype html>
<html>
<head>
<title>Signup</title>
<script src="https://js.hcaptcha.com/1/api.js" async defer></script>
</head>
<body>
<h1>Signup</h1>
<form method="post" action="/api/signup">
<input type="email" name="email" placeholder="Email"/>
<input type="password" name="password" placeholder="Password"/>
<div class="h-captcha" data-sitekey="{{.SiteKey}}"></div>
<button type="submit">Signup</button>
</form>
</body>
</html>
`))

// PageHandler renders the signup form with the captcha widget.
type PageHandler struct {
	siteKey string
}

func NewPageHandler(siteKey string) *PageHandler {
	return &PageHandler{siteKey: siteKey}
}

func (h *PageHandler) Handle(c *fiber.Ctx) error {
	var b strings.Builder
	if err := pageTemplate.Execute(&b, struct{ SiteKey string }{h.siteKey}); err != nil {
		return err
	}
	c.Type("html")
	return c.SendString(b.String())
}

// SignupHandler creates an account once the captcha middleware has passed.
type SignupHandler struct {
	users *UserStore
}

func NewSignupHandler(users *UserStore) *SignupHandler {
	return &SignupHandler{users: users}
}

type accountResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Hostname string `json:"hostname,omitempty"`
}

func (h *SignupHandler) Handle(c *fiber.Ctx) error {
	email := strings.TrimSpace(utils.CopyString(c.FormValue("email")))
	password := utils.CopyString(c.FormValue("password"))
	if email == "" {
		return captchaErrors.HandleInvalidRequestError(c, "email is required")
	}
	if password == "" {
		return captchaErrors.HandleInvalidRequestError(c, "password is required")
	}

	passStrength := gopass.PasswordStrength(password, []string{email})
	if passStrength.Score < 3 || passStrength.Entropy < 37 {
		return captchaErrors.HandleInvalidRequestError(c, "Password is not strong enough!")
	}

	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	if err := h.users.Create(id, email, password); err != nil {
		if errors.Is(err, ErrUserExists) {
			return c.Status(http.StatusConflict).JSON(captchaErrors.ErrorResponse{
				Code:    "USER_EXISTS",
				Message: err.Error(),
			})
		}
		return err
	}

	out := accountResponse{ID: id.String(), Email: email}
	if resp, ok := middleware.FromFiber(c); ok {
		out.Hostname, _ = resp.Hostname()
	}
	log.InfoWithContext(c.UserContext(), "user %s signed up", id)
	return c.Status(http.StatusCreated).JSON(out)
}

// LoginHandler checks credentials once the captcha middleware has passed.
type LoginHandler struct {
	users *UserStore
}

func NewLoginHandler(users *UserStore) *LoginHandler {
	return &LoginHandler{users: users}
}

func (h *LoginHandler) Handle(c *fiber.Ctx) error {
	email := strings.TrimSpace(utils.CopyString(c.FormValue("email")))
	password := utils.CopyString(c.FormValue("password"))
	if email == "" || password == "" {
		return captchaErrors.HandleInvalidRequestError(c, "email and password are required")
	}

	user, ok := h.users.Authenticate(email, password)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(captchaErrors.ErrorResponse{
			Code:    "INVALID_CREDENTIALS",
			Message: "Email or password is incorrect",
		})
	}

	log.InfoWithContext(c.UserContext(), "user %s logged in", user.ID)
	return c.JSON(accountResponse{ID: user.ID.String(), Email: user.Email})
}

// VerifyHandler checks a token submitted as JSON and returns the service reply.
type VerifyHandler struct {
	verifier verify.Verifier
	secret   verify.Secret
	siteKey  string
}

func NewVerifyHandler(verifier verify.Verifier, secret verify.Secret, siteKey string) *VerifyHandler {
	return &VerifyHandler{verifier: verifier, secret: secret, siteKey: siteKey}
}

type verifyRequest struct {
	Token    string `json:"token"`
	RemoteIP string `json:"remoteip"`
	SiteKey  string `json:"sitekey"`
}

func (h *VerifyHandler) Handle(c *fiber.Ctx) error {
	var body verifyRequest
	if err := c.BodyParser(&body); err != nil {
		return captchaErrors.HandleInvalidRequestError(c, "request body must be JSON")
	}
	if body.Token == "" {
		return captchaErrors.HandleServiceError(c, captchaErrors.ErrTokenMissing)
	}

	req := verify.NewRequest(h.secret, body.Token)
	if body.RemoteIP != "" {
		withIP, err := req.WithUserIPString(body.RemoteIP)
		if err != nil {
			return captchaErrors.HandleInvalidRequestError(c, "remoteip is not a valid IP address")
		}
		req = withIP
	}
	switch {
	case body.SiteKey != "":
		req = req.WithSiteKey(body.SiteKey)
	case h.siteKey != "":
		req = req.WithSiteKey(h.siteKey)
	}

	resp, err := h.verifier.Verify(c.UserContext(), req)
	if err != nil {
		return captchaErrors.HandleServiceError(c, err)
	}
	return c.JSON(resp)
}
