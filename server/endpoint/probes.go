package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/vlmscribe/component"
)

func probe(c *gin.Context, code int, serviceName, status string) {
	c.JSON(code, gin.H{
		"status":    status,
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Liveness answers as long as the process can serve HTTP.
func Liveness(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		probe(c, http.StatusOK, serviceName, "alive")
	}
}

// Readiness reports "not_ready" with 503 while any component is unhealthy.
// Degraded components, such as a history backend answering slowly, still
// count as ready.
func Readiness(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker != nil && overall(checker(c.Request.Context())) == component.StatusUnhealthy {
			probe(c, http.StatusServiceUnavailable, serviceName, "not_ready")
			return
		}
		probe(c, http.StatusOK, serviceName, "ready")
	}
}
