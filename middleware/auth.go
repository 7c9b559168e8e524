package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"hermexpress-io/api/configs"
	"hermexpress-io/api/helper"
	"hermexpress-io/api/models"
)

func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := configs.ExtractToken(c)
		if tokenString == "" {
			helper.HandleError(c, 401, errors.New("request does not contain an access token"), "request does not contain an access token")
			c.Abort()
			return
		}
		_, err := configs.ValidateToken(tokenString)
		if err != nil {
			helper.HandleError(c, 401, err, err.Error())
			c.Abort()
			return
		}

		res := helper.IsTokenValid(configs.REDIS, tokenString)
		if !res {
			helper.HandleError(c, 401, errors.New("token has been logged out, please login again"), "token has been logged out, please login again")
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalAuth lets guests through. A valid token attaches the principal;
// a missing or bad one just means the request proceeds unauthenticated
// (wallet payments re-check later and fail with a named error).
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := configs.ExtractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}
		if _, err := configs.ValidateToken(tokenString); err != nil {
			c.Next()
			return
		}
		if !helper.IsTokenValid(configs.REDIS, tokenString) {
			c.Next()
			return
		}

		c.Next()
	}
}

func Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := configs.InitJwtClaim(c)
		if err != nil {
			helper.HandleError(c, 401, err, "Invalid user token, id or access")
			c.Abort()
			return
		}
		if claims.Role != string(models.RoleAdmin) {
			helper.HandleError(c, 403, errors.New("admin access required"), "admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
