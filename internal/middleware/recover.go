package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clearpay-api/internal/constant"
	"clearpay-api/internal/logger"
	"clearpay-api/internal/utils"
)

func Recover() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				if logger.App != nil {
					logger.App.Errorf("[Panic] %s %s: %v", c.Request.Method, c.Request.URL.Path, r)
				}
				c.JSON(http.StatusInternalServerError, utils.Error(constant.CodeSystemError))
				c.Abort()
			}
		}()
		c.Next()
	}
}
