// Package controller wires the diary REST surface.
package controller

import (
	"strconv"
	"time"

	"github.com/fieldworks/diary-service/internal/controller/handlers"
	"github.com/fieldworks/diary-service/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func NewRouter(
	diary *handlers.DiaryHandler,
	engineers *handlers.EngineerHandler,
	reports *handlers.ReportHandler,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), observe(logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	router.GET("/engineers", engineers.List)

	d := router.Group("/diary")
	{
		d.GET("/entries", diary.List)
		d.GET("/check-conflict", diary.CheckConflict)
		d.GET("/call-log/:callId/assignments", diary.Assignments)
		d.POST("/entries/:userId", diary.Create)
		d.PUT("/entries/:id", diary.Update)
		d.DELETE("/entries/:id", diary.Delete)
		d.GET("/grid.png", reports.GridImage)
		d.GET("/export.xlsx", reports.ExportWorkbook)
	}

	return router
}

// observe records request latency metrics and a structured access log line.
func observe(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		metrics.RequestDurationSeconds.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).
			Observe(elapsed.Seconds())

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
		)
	}
}
