package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func NewRouter(h *Handler, corsOrigins ...string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), CORS(corsOrigins), RequestID(), RequestLogger())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	user := router.Group("/api/v1/user")
	user.POST("/create", h.CreateUserWithBooks)
	user.PUT("/update", h.UpdateUserWithBooks)
	user.GET("/get/:userId", h.GetUserWithBooks)
	user.DELETE("/delete/:userId", h.DeleteUserWithBooks)

	return router
}
