package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tahaafzal5/zero2prod/internal/middleware"
	"github.com/tahaafzal5/zero2prod/internal/modules/auth"
	"github.com/tahaafzal5/zero2prod/internal/modules/health"
	"github.com/tahaafzal5/zero2prod/internal/modules/newsletter"
	"github.com/tahaafzal5/zero2prod/internal/modules/subscription"
	"github.com/tahaafzal5/zero2prod/internal/pkg/mail"
)

func (a *App) registerRoutes(mailer *mail.Sender) {
	r := a.router
	authMW := middleware.Auth()

	root := r.Group("")

	// Infrastructure
	health.RegisterRoutes(root, a.db)
	root.GET("/", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, "<p>Welcome to our newsletter!</p>")
	})

	// Subscriber sign-up and confirmation
	store := subscription.NewStore(a.db)
	subSvc := subscription.NewService(store, mailer, a.cfg.BaseURL)
	subscription.NewHandler(subSvc, a.logger).RegisterRoutes(root)

	// Operator login
	auth.NewHandler(auth.NewService(a.db, a.logger), a.logger, []byte(a.cfg.HMACSecret)).RegisterRoutes(root)

	// Newsletter delivery (operator only)
	newsSvc := newsletter.NewService(store, mailer)
	newsletter.NewHandler(newsSvc, a.logger).RegisterRoutes(root, authMW)
}
