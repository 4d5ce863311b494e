package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// RequestRecorder destino de las métricas HTTP.
type RequestRecorder interface {
	RecordHTTPRequest(method, path string, status int, duration time.Duration)
}

// MetricsMiddleware registra método, ruta (patrón, no la URL concreta), estado y duración.
// Método y ruta se copian: fiber reutiliza sus buffers entre peticiones.
func MetricsMiddleware(rec RequestRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		method := utils.CopyString(c.Method())
		path := utils.CopyString(c.Route().Path)
		rec.RecordHTTPRequest(method, path, status, time.Since(start))
		return err
	}
}
