package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/cuentaclara/restaurant-pos/live"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveHandler -> websocket endpoint for the floor screens
func LiveHandler(c *gin.Context) {
	roleInterface, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleInterface.(string)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	live.RegisterClient(ws, role)

	// clients only listen; drain until the connection drops
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	live.UnregisterClient(ws)
}
