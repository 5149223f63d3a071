package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/shareholder-portal/internal/pkg/apperror"
)

var errInvalidBody = apperror.New(apperror.ErrCodeInvalidFormat, "request body is not valid JSON")

// bindJSON разбирает тело запроса. Пустое тело допустимо: обязательные поля
// проверяет usecase и вернёт MISSING_FIELD.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	return nil
}

// fail передаёт ошибку в middleware.ErrorHandler.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
