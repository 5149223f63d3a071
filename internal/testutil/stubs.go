package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/shareholder-portal/internal/domain/entity"
	"github.com/ignatzorin/shareholder-portal/internal/domain/valueobject"
)

// Clock реализует управляемые часы для проверки границ TTL.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SentMessage хранит сообщение, принятое SMSRecorder.
type SentMessage struct {
	To      string
	Message string
}

// SMSRecorder запоминает отправленные сообщения. Delay имитирует медленный шлюз.
type SMSRecorder struct {
	mu    sync.Mutex
	Sent  []SentMessage
	Err   error
	Delay time.Duration
}

func (s *SMSRecorder) Send(ctx context.Context, to, message string) error {
	if s.Delay > 0 {
		time.Sleep(s.Delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Sent = append(s.Sent, SentMessage{To: to, Message: message})
	return nil
}

// PublishedEvents собирает события, отправленные в шину.
type PublishedEvents struct {
	mu     sync.Mutex
	Events []entity.VerificationEvent
	Err    error
}

func (p *PublishedEvents) Publish(ctx context.Context, event *entity.VerificationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, *event)
	return nil
}

func (p *PublishedEvents) Close() {}

// RunNow выполняет фоновую задачу сразу, в текущей горутине.
func RunNow(task string, fn func()) {
	fn()
}

// Shareholder возвращает акционера с мобильным номером и суффиксом ID.
func Shareholder() *entity.Shareholder {
	created := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	return &entity.Shareholder{
		Code:        "000001",
		UUID:        uuid.MustParse("6f1c2a1e-8c1b-4d7e-9a55-0b1d2f3e4a5b"),
		Name:        valueobject.NewOptionalText("王小明"),
		IDLastFour:  valueobject.NewOptionalText("5678"),
		Address:     entity.ContactValue{Original: valueobject.NewOptionalText("信義路一段1號")},
		HomePhone:   entity.ContactValue{Original: valueobject.NewOptionalText("02-12345678")},
		MobilePhone: entity.ContactValue{Original: valueobject.NewOptionalText("0912345678")},
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}
