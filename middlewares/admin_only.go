package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cuentaclara/restaurant-pos/models"
	"github.com/cuentaclara/restaurant-pos/utils"
)

// AdminOnly gates the settings surface: catalog, tables, users, expenses and
// corte finalization.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			c.Abort()
			return
		}
		if role != models.RoleAdmin {
			utils.RespondError(c, http.StatusForbidden, errors.New("admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
