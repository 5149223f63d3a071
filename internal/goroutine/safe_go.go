package goroutine

import (
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/shareholder-portal/internal/logger"
)

// RecoveryHandler запускает фоновые задачи и логирует их panic.
type RecoveryHandler struct {
	log func() logrus.FieldLogger
}

// NewRecoveryHandler создает обработчик с заданным логгером.
func NewRecoveryHandler(log logrus.FieldLogger) *RecoveryHandler {
	return &RecoveryHandler{log: func() logrus.FieldLogger { return log }}
}

// SafeGo запускает горутину с обработкой panic
func (rh *RecoveryHandler) SafeGo(task string, fn func()) {
	go rh.run(task, fn)
}

func (rh *RecoveryHandler) run(task string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			rh.log().WithFields(logrus.Fields{
				"task":  task,
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("panic in goroutine")
		}
	}()
	fn()
}

// DefaultRecoveryHandler пишет в глобальный logger.Log. Логгер берётся
// в момент panic, поэтому учитывает повторный logger.Init.
var DefaultRecoveryHandler = &RecoveryHandler{log: func() logrus.FieldLogger { return logger.Log }}

// SafeGo - упрощенная функция для запуска безопасной горутины
func SafeGo(task string, fn func()) {
	DefaultRecoveryHandler.SafeGo(task, fn)
}
