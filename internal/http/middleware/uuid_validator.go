package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/shareholder-portal/internal/interface/http/response"
	"github.com/ignatzorin/shareholder-portal/internal/validation"
)

// UUIDValidator проверяет, что параметр пути является UUID в каноническом виде.
// Использование: router.GET("/sessions/:logId/trail", UUIDValidator("logId"), handler.GetTrail)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := validation.ValidateIdentifier(paramName, c.Param(paramName)); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}
