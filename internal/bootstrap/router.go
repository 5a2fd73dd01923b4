package bootstrap

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/GrahamCHill/diagram-studio/internal/audit"
	diaghttp "github.com/GrahamCHill/diagram-studio/internal/diagrams/http"
)

// SetGinMode switches gin to release mode outside development.
func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}

type RouterDeps struct {
	Diagrams     diaghttp.DiagramAPI
	Audit        *audit.Recorder
	AllowOrigins []string
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-User-ID", "X-Request-Id"},
		AllowCredentials: true,
	}))
	r.Use(RequestIDMiddleware())
	if dep.Audit != nil {
		r.Use(audit.Middleware(dep.Audit))
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Diagram store up"})
	})

	handler := diaghttp.New(dep.Diagrams)
	handler.Register(r.Group("/api/diagrams"))

	return r
}
