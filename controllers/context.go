package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cuentaclara/restaurant-pos/services"
)

// actorFromContext rebuilds the acting user from what AuthMiddleware put on
// the context. Services only ever see this explicit actor, never the context.
func actorFromContext(c *gin.Context) services.Actor {
	actor := services.Actor{}
	if id, ok := c.Get("user_id"); ok {
		if uid, ok := id.(uint); ok {
			actor.UserID = uid
		}
	}
	if role, ok := c.Get("role"); ok {
		if r, ok := role.(string); ok {
			actor.Role = r
		}
	}
	return actor
}

// parseDateParam reads a YYYY-MM-DD value, falling back to today when the
// value is missing or malformed. The corte screen has always been lenient
// about this.
func parseDateParam(value string) time.Time {
	if value != "" {
		if d, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
			return d
		}
	}
	return time.Now()
}
