package cooldown

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const keyPrefix = "shareholder:code-cooldown"

// Window занимает и освобождает окно повторной отправки.
type Window interface {
	Reserve(ctx context.Context, key string) (time.Duration, error)
	Release(ctx context.Context, key string) error
}

// New выбирает реализацию окна. В тестовом режиме и при нулевом интервале
// окно отключено, при наличии Redis оно общее для всех экземпляров.
func New(testMode bool, interval time.Duration, client *redis.Client) (Window, error) {
	if testMode || interval <= 0 {
		return Disabled{}, nil
	}
	if client != nil {
		l, err := NewRedis(client, interval)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	return NewMemory(interval), nil
}

// Limiter держит окно повторной отправки кода на базе ulule/limiter:
// один запрос за период на ключ.
type Limiter struct {
	limiter *limiter.Limiter
	now     func() time.Time
}

// NewMemory хранит окна в памяти процесса. Подходит для одного экземпляра.
func NewMemory(interval time.Duration) *Limiter {
	store := memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          keyPrefix,
		CleanUpInterval: limiter.DefaultCleanUpInterval,
	})
	return newLimiter(store, interval)
}

// NewRedis хранит окна в Redis, поэтому они общие для всех экземпляров.
func NewRedis(client *redis.Client, interval time.Duration) (*Limiter, error) {
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: keyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("cooldown: redis store: %w", err)
	}
	return newLimiter(store, interval), nil
}

func newLimiter(store limiter.Store, interval time.Duration) *Limiter {
	rate := limiter.Rate{Period: interval, Limit: 1}
	return &Limiter{limiter: limiter.New(store, rate), now: time.Now}
}

// Reserve засчитывает запрос в хранилище. Первый запрос за период получает
// окно, остальные узнают, сколько ждать. Инкремент в store атомарный, поэтому
// из параллельных запросов окно достаётся только одному.
func (l *Limiter) Reserve(ctx context.Context, key string) (time.Duration, error) {
	state, err := l.limiter.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("cooldown: reserve %q: %w", key, err)
	}
	if !state.Reached {
		return 0, nil
	}
	left := time.Unix(state.Reset, 0).Sub(l.now())
	if left < time.Second {
		left = time.Second
	}
	return left, nil
}

// Release сбрасывает счётчик ключа.
func (l *Limiter) Release(ctx context.Context, key string) error {
	if _, err := l.limiter.Reset(ctx, key); err != nil {
		return fmt.Errorf("cooldown: release %q: %w", key, err)
	}
	return nil
}

// Disabled используется при нулевом интервале и в тестовом режиме.
type Disabled struct{}

func (Disabled) Reserve(context.Context, string) (time.Duration, error) { return 0, nil }

func (Disabled) Release(context.Context, string) error { return nil }
