package newsletter

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tahaafzal5/zero2prod/internal/middleware"
	"github.com/tahaafzal5/zero2prod/internal/pkg/response"
	"go.uber.org/zap"
)

type publishBody struct {
	Title   string `json:"title" binding:"required"`
	Content struct {
		HTML string `json:"html" binding:"required"`
		Text string `json:"text" binding:"required"`
	} `json:"content" binding:"required"`
}

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/newsletter", authMW, h.publish)
}

func (h *Handler) publish(c *gin.Context) {
	var body publishBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	h.log.Info("newsletter publish requested",
		zap.String("operator", middleware.CurrentUserID(c)),
		zap.String("title", body.Title),
	)

	result, err := h.svc.Publish(body.Title, body.Content.HTML, body.Content.Text)
	if err != nil {
		h.log.Error("newsletter publish aborted", zap.Error(err))
		response.InternalError(c)
		return
	}

	if len(result.Failed) > 0 {
		for _, f := range result.Failed {
			h.log.Error("newsletter delivery failed",
				zap.String("recipient", f.Email),
				zap.Error(f.Err),
			)
		}
		c.JSON(http.StatusInternalServerError, result)
		return
	}
	response.OKJSON(c, result)
}
