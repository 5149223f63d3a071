package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/shareholder-portal/internal/domain/entity"
	"github.com/ignatzorin/shareholder-portal/internal/logger"
)

// Publisher рассылает события журнала внешним подписчикам.
type Publisher interface {
	Publish(ctx context.Context, event *entity.VerificationEvent) error
	Close()
}

// conn описывает часть *nats.Conn, которая нужна издателю.
type conn interface {
	Publish(subj string, data []byte) error
	Close()
}

type NATSPublisher struct {
	conn    conn
	subject string
}

// EventMessage задаёт формат сообщения в шине. Код подтверждения не передаётся.
type EventMessage struct {
	ID              int64               `json:"id"`
	LogID           string              `json:"log_id"`
	ShareholderCode string              `json:"shareholder_code"`
	Type            string              `json:"type"`
	Payload         entity.EventPayload `json:"payload"`
	OccurredAt      time.Time           `json:"occurred_at"`
}

func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("shareholder-portal"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Log.WithField("url", url).Info("connected to NATS")
	return newNATSPublisher(nc, subject), nil
}

func newNATSPublisher(c conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: c, subject: subject}
}

// Subject возвращает тему для события: <base>.<event_type>.
func (p *NATSPublisher) Subject(event *entity.VerificationEvent) string {
	return p.subject + "." + string(event.Type)
}

func (p *NATSPublisher) Publish(ctx context.Context, event *entity.VerificationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(EventMessage{
		ID:              event.ID,
		LogID:           event.LogID.String(),
		ShareholderCode: event.ShareholderCode,
		Type:            string(event.Type),
		Payload:         event.Payload,
		OccurredAt:      event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal verification event: %w", err)
	}

	if err := p.conn.Publish(p.Subject(event), data); err != nil {
		return fmt.Errorf("failed to publish verification event: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"log_id": event.LogID.String(),
		"event":  string(event.Type),
	}).Debug("verification event published")
	return nil
}

func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
		logger.Log.Info("NATS connection closed")
	}
}

// Nop используется, когда NATS_URL не задан.
type Nop struct{}

func (Nop) Publish(context.Context, *entity.VerificationEvent) error { return nil }

func (Nop) Close() {}
