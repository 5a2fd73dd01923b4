package audit

import (
	"log"

	"github.com/gin-gonic/gin"
)

// Middleware records every request to the audit log after it completes.
// Audit failures are logged, never surfaced to the caller.
func Middleware(rec *Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		err := rec.Record(c.Request.Context(), Entry{
			Action:    "http_request",
			Entity:    "route",
			EntityID:  c.Request.URL.Path,
			UserID:    c.GetHeader("X-User-ID"),
			RequestIP: c.ClientIP(),
			Details: map[string]any{
				"method": c.Request.Method,
				"status": c.Writer.Status(),
			},
		})
		if err != nil {
			log.Printf("[warn] operation=audit error=%v", err)
		}
	}
}
