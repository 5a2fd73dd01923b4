package http

import "github.com/gin-gonic/gin"

// Register attaches diagram routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.GET("/:id/content", h.content)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}
