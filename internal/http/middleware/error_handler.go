package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/shareholder-portal/internal/interface/http/response"
	"github.com/ignatzorin/shareholder-portal/internal/logger"
)

// ErrorHandler рендерит последнюю ошибку из c.Errors в общем конверте.
// Причины 5xx пишутся в лог, клиент их не видит.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := response.StatusOf(err)

		fields := logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"status": status,
		}
		if status >= http.StatusInternalServerError {
			logger.Log.WithFields(fields).WithError(err).Error("request failed")
		} else {
			logger.Log.WithFields(fields).WithError(err).Debug("request rejected")
		}

		response.Error(c, err)
	}
}
