package monitoring

import (
	"log/slog"
	"net/http"
	"time"

	"gatherly/security"
	"gatherly/utils"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// OpsServer serves the operational endpoints (metrics, health) on a
// separate port so they never share the public listener.
type OpsServer struct {
	echo  *echo.Echo
	redis *redis.Client
	port  string
}

func NewOpsServer(redisClient *redis.Client, limiter *security.RateLimiter, port string) *OpsServer {
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(limiter.OpsRateLimit())

	s := &OpsServer{echo: e, redis: redisClient, port: port}

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", s.health)

	return s
}

func (s *OpsServer) health(c echo.Context) error {
	checks := map[string]string{"redis": "ok"}
	healthy := true

	if err := utils.RedisHealthCheck(s.redis); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	}

	code := http.StatusOK
	overall := "ok"
	if !healthy {
		code = http.StatusServiceUnavailable
		overall = "degraded"
	}
	return c.JSON(code, map[string]any{
		"status": overall,
		"checks": checks,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start blocks serving until the listener fails, so run it in its own
// goroutine.
func (s *OpsServer) Start() {
	slog.Info("ops server listening", "port", s.port)
	if err := s.echo.Start(":" + s.port); err != nil && err != http.ErrServerClosed {
		slog.Error("ops server stopped", "error", err)
	}
}
