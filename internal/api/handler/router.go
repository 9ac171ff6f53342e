package handler

import (
	"github.com/gin-gonic/gin"
)

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), CORSMiddleware(allowedOrigins))

	r.GET("/ws", h.ServeWebSocket)
	r.GET("/anonid", h.GetAnonID)
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.GET("/stats", h.Stats)
		api.GET("/users", h.Users)
		api.GET("/profile/:id", h.GetProfile)
		api.PUT("/profile/:id", h.PutProfile)
	}
	return r
}
