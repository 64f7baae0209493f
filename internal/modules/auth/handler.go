package auth

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tahaafzal5/zero2prod/internal/middleware"
	"github.com/tahaafzal5/zero2prod/internal/pkg/jwt"
	"github.com/tahaafzal5/zero2prod/internal/pkg/response"
	"github.com/tahaafzal5/zero2prod/internal/pkg/signer"
	"go.uber.org/zap"
)

const sessionTTL = 24 * time.Hour

const loginPageTpl = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta http-equiv="content-type" content="text/html; charset=utf-8">
    <title>Login</title>
</head>
<body>
    {{if .Error}}<p><i>{{.Error}}</i></p>{{end}}
    <form action="/login" method="post">
        <label>Username
            <input type="text" placeholder="Enter your username" name="username">
        </label>
        <label>Password
            <input type="password" placeholder="Enter password" name="password">
        </label>
        <button type="submit">Login</button>
    </form>
</body>
</html>`

var loginPage = template.Must(template.New("login").Parse(loginPageTpl))

type loginForm struct {
	Username string `form:"username"`
	Email    string `form:"email"` // accepted as an alias for username
	Password string `form:"password"`
}

type registerBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type Handler struct {
	svc        *Service
	log        *zap.Logger
	hmacSecret []byte
}

func NewHandler(svc *Service, log *zap.Logger, hmacSecret []byte) *Handler {
	return &Handler{svc: svc, log: log, hmacSecret: hmacSecret}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/login", h.loginForm)
	rg.POST("/login", h.login)
	rg.POST("/register", h.register)
}

// loginForm renders the login page. An error message arriving via the
// redirect query parameters is shown only if its tag verifies; unverified
// content is discarded and the page renders without it.
func (h *Handler) loginForm(c *gin.Context) {
	display := ""
	if msg := c.Query("error"); msg != "" {
		fragment := "error=" + url.QueryEscape(msg)
		if err := signer.Verify(fragment, c.Query("tag"), h.hmacSecret); err != nil {
			h.log.Warn("discarding login error message that failed verification",
				zap.String("ip", c.ClientIP()),
			)
		} else {
			display = msg
		}
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := loginPage.Execute(c.Writer, gin.H{"Error": display}); err != nil {
		h.log.Error("failed to render login page", zap.Error(err))
	}
}

func (h *Handler) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.redirectWithError(c, "Authentication failed")
		return
	}
	username := form.Username
	if username == "" {
		username = form.Email
	}

	userID, err := h.svc.Login(username, form.Password, c.ClientIP())
	if err != nil {
		if errors.Is(err, errInvalidCredentials) {
			h.redirectWithError(c, "Authentication failed")
			return
		}
		h.log.Error("login failed unexpectedly", zap.String("username", username), zap.Error(err))
		h.redirectWithError(c, "Something went wrong")
		return
	}

	token, err := jwt.Sign(userID, sessionTTL)
	if err != nil {
		h.log.Error("failed to issue session token", zap.Error(err))
		h.redirectWithError(c, "Something went wrong")
		return
	}
	c.SetCookie(middleware.SessionCookieName, token, int(sessionTTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

// redirectWithError sends the browser back to the login page with the message
// and its integrity tag as query parameters. Both sides sign the identical
// URL-encoded fragment, so encoding mismatches cannot occur.
func (h *Handler) redirectWithError(c *gin.Context, msg string) {
	fragment := "error=" + url.QueryEscape(msg)
	tag := signer.Sign(fragment, h.hmacSecret)
	c.Redirect(http.StatusSeeOther, "/login?"+fragment+"&tag="+tag)
}

func (h *Handler) register(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Register(body.Username, body.Password)
	if err != nil {
		if errors.Is(err, errOperatorExists) {
			response.BadRequest(c, err.Error())
			return
		}
		h.log.Error("operator registration failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": u.ID, "username": u.Username})
}
