package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Log является глобальным логгером. До Init пишет текстом с уровнем Info.
var Log = logrus.New()

// Init настраивает уровень и формат: JSON в production, текст в остальных окружениях.
func Init(level, env string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if env == "production" {
		Log.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// Discard глушит вывод. Используется в тестах.
func Discard() {
	Log.SetOutput(io.Discard)
}
