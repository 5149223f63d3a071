package verification

import (
	"context"
	"time"
)

// Cooldown ограничивает частоту повторных отправок кода.
type Cooldown interface {
	// Reserve атомарно занимает окно. Возвращает 0, если окно занято этим
	// вызовом, иначе оставшееся время чужого окна.
	Reserve(ctx context.Context, key string) (time.Duration, error)
	// Release освобождает окно, если отправка не состоялась.
	Release(ctx context.Context, key string) error
}

// Sender доставляет сообщение на телефон.
type Sender interface {
	Send(ctx context.Context, to, message string) error
}
