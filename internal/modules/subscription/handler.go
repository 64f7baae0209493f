package subscription

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/tahaafzal5/zero2prod/internal/pkg/response"
	"go.uber.org/zap"
)

type subscribeForm struct {
	Name  string `form:"name"`
	Email string `form:"email"`
}

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/subscriptions")
	g.POST("", h.subscribe)
	g.GET("/confirm", h.confirm)
}

func (h *Handler) subscribe(c *gin.Context) {
	var form subscribeForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	err := h.svc.Subscribe(form.Name, form.Email)
	if err == nil {
		response.OK(c)
		return
	}

	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.BadRequest(c, verr.Reason)
	case errors.Is(err, ErrAlreadySubscribed):
		// The subscription is already active; re-submitting changes nothing.
		response.OK(c)
	default:
		h.log.Error("sign-up failed",
			zap.String("subscriber_email", form.Email),
			zap.String("subscriber_name", form.Name),
			zap.Error(err),
		)
		response.InternalError(c)
	}
}

func (h *Handler) confirm(c *gin.Context) {
	tok := c.Query("subscription_token")
	if tok == "" {
		response.BadRequest(c, "subscription_token is required")
		return
	}

	err := h.svc.Confirm(tok)
	switch {
	case err == nil:
		response.OK(c)
	case errors.Is(err, ErrTokenNotFound):
		response.NotFoundMsg(c, "unknown subscription token")
	default:
		h.log.Error("confirmation failed", zap.Error(err))
		response.InternalError(c)
	}
}
