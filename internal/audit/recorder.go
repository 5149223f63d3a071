package audit

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/shareholder-portal/internal/domain/entity"
	"github.com/ignatzorin/shareholder-portal/internal/domain/repository"
	"github.com/ignatzorin/shareholder-portal/internal/goroutine"
	"github.com/ignatzorin/shareholder-portal/internal/infrastructure/eventbus"
	"github.com/ignatzorin/shareholder-portal/internal/logger"
	"github.com/ignatzorin/shareholder-portal/internal/metrics"
)

const publishTimeout = 5 * time.Second

// Recorder пишет события журнала без влияния на результат основной операции:
// ошибки записи логируются и считаются, но не возвращаются.
type Recorder struct {
	events    repository.EventRepository
	publisher eventbus.Publisher
	metrics   *metrics.Metrics
	spawn     func(task string, fn func())
}

func NewRecorder(events repository.EventRepository, publisher eventbus.Publisher, m *metrics.Metrics) *Recorder {
	if publisher == nil {
		publisher = eventbus.Nop{}
	}
	return &Recorder{events: events, publisher: publisher, metrics: m, spawn: goroutine.SafeGo}
}

// WithSpawner подменяет запуск фоновой публикации. В тестах публикация выполняется синхронно.
func (r *Recorder) WithSpawner(spawn func(task string, fn func())) *Recorder {
	r.spawn = spawn
	return r
}

// Record добавляет событие в журнал и, если запись удалась, публикует его в шину.
// Возвращает true, если событие сохранено.
func (r *Recorder) Record(ctx context.Context, event *entity.VerificationEvent) bool {
	if err := r.events.Append(ctx, event); err != nil {
		r.Failed(string(event.Type), err, logrus.Fields{
			"log_id":           event.LogID.String(),
			"shareholder_code": event.ShareholderCode,
		})
		return false
	}

	published := *event
	r.spawn("publish verification event", func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := r.publisher.Publish(pubCtx, &published); err != nil {
			r.metrics.IncrementAuditPublishFailures()
			logger.Log.WithFields(logrus.Fields{
				"log_id": published.LogID.String(),
				"event":  string(published.Type),
			}).WithError(err).Warn("verification event not published")
		}
	})
	return true
}

// Failed фиксирует проглоченную ошибку побочной записи.
func (r *Recorder) Failed(event string, err error, fields logrus.Fields) {
	r.metrics.IncrementAuditWriteFailures(event)
	logger.Log.WithFields(fields).WithField("event", event).WithError(err).Warn("audit write failed")
}
