package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ignatzorin/shareholder-portal/internal/pkg/apperror"
)

const ResultOK = "ok"

// ResultOf превращает ошибку операции в значение метки result.
func ResultOf(err error) string {
	if err == nil {
		return ResultOK
	}
	return strings.ToLower(string(apperror.CodeOf(err)))
}

// Metrics содержит счётчики сервиса верификации.
type Metrics struct {
	QRChecks             *prometheus.CounterVec
	CodesIssued          *prometheus.CounterVec
	Verifications        *prometheus.CounterVec
	ContactUpdates       *prometheus.CounterVec
	AuditWriteFailures   *prometheus.CounterVec
	AuditPublishFailures prometheus.Counter
}

// New регистрирует метрики в reg. В тестах передаётся свежий prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		QRChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shareholder_qr_checks_total",
			Help: "Total number of QR code checks by result",
		}, []string{"result"}),
		CodesIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shareholder_verification_codes_issued_total",
			Help: "Total number of verification code requests by result",
		}, []string{"result"}),
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shareholder_verifications_total",
			Help: "Total number of verification attempts by method and result",
		}, []string{"method", "result"}),
		ContactUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shareholder_contact_updates_total",
			Help: "Total number of accepted contact updates by whether any field changed",
		}, []string{"changed"}),
		AuditWriteFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shareholder_audit_write_failures_total",
			Help: "Total number of swallowed audit trail write failures",
		}, []string{"event"}),
		AuditPublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "shareholder_audit_publish_failures_total",
			Help: "Total number of audit events that could not be published to the event bus",
		}),
	}
}

func (m *Metrics) ObserveQRCheck(result string) {
	m.QRChecks.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveCodeIssued(result string) {
	m.CodesIssued.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveVerification(method, result string) {
	m.Verifications.WithLabelValues(method, result).Inc()
}

func (m *Metrics) ObserveContactUpdate(changed bool) {
	label := "false"
	if changed {
		label = "true"
	}
	m.ContactUpdates.WithLabelValues(label).Inc()
}

func (m *Metrics) IncrementAuditWriteFailures(event string) {
	m.AuditWriteFailures.WithLabelValues(event).Inc()
}

func (m *Metrics) IncrementAuditPublishFailures() {
	m.AuditPublishFailures.Inc()
}
