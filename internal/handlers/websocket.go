package handlers

import (
	"github.com/abhishek9871/nesteryrelease-sub001/internal/services"
	"github.com/gin-gonic/gin"
)

// WebSocketHandler upgrades the request and registers the caller for
// booking status updates
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		role := c.GetString("role")

		services.HandleWebSocket(hub, c.Writer, c.Request, userId, role)
	}
}
