package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cuentaclara/restaurant-pos/utils"
)

// AuthMiddleware validates the bearer token and puts user_id and role on the
// context. Websocket clients may pass the token as a query parameter instead.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			token = c.Query("token")
		} else {
			if !strings.HasPrefix(token, "Bearer ") {
				utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid authorization header"))
				c.Abort()
				return
			}
			token = strings.TrimPrefix(token, "Bearer ")
		}

		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization token missing"))
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}
		if claims.UserID == 0 {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid user id in token"))
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
