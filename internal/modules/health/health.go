// Package health exposes the liveness probe.
package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterRoutes mounts the health check endpoints.
// GET /health_check answers 200 with an empty body as long as the process is
// up; load balancers and uptime monitors poll it. GET /health reports whether
// the database connection is alive.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB) {
	rg.GET("/health_check", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rg.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		dbOK := err == nil && sqlDB.Ping() == nil

		status := "ok"
		code := http.StatusOK
		if !dbOK {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":   status,
			"database": dbOK,
		})
	})
}
