// Package testutil содержит in-memory хранилище и заглушки внешних зависимостей для тестов.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/shareholder-portal/internal/domain/entity"
	"github.com/ignatzorin/shareholder-portal/internal/pkg/apperror"
)

// MemStore реализует все репозитории поверх map. Поля *Err позволяют
// сымитировать отказ конкретной операции.
type MemStore struct {
	mu           sync.Mutex
	shareholders map[string]*entity.Shareholder
	sessions     map[uuid.UUID]*entity.VerificationSession
	events       []entity.VerificationEvent
	nextEventID  int64

	FindErr          error
	SessionCreateErr error
	SessionUpdateErr error
	AppendErr        error
	LoginCountErr    error
	ContactErr       error

	// Writes считает все изменяющие операции.
	Writes int
}

func NewMemStore(shareholders ...*entity.Shareholder) *MemStore {
	m := &MemStore{
		shareholders: make(map[string]*entity.Shareholder),
		sessions:     make(map[uuid.UUID]*entity.VerificationSession),
	}
	for _, s := range shareholders {
		m.PutShareholder(s)
	}
	return m
}

func (m *MemStore) PutShareholder(s *entity.Shareholder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.shareholders[s.Code] = &cp
}

func (m *MemStore) Shareholder(code string) *entity.Shareholder {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shareholders[code]
	if !ok {
		return nil
	}
	cp := *s
	return &cp
}

func (m *MemStore) PutSession(s *entity.VerificationSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.LogID] = &cp
}

func (m *MemStore) Session(logID uuid.UUID) *entity.VerificationSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[logID]
	if !ok {
		return nil
	}
	cp := *s
	return &cp
}

func (m *MemStore) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *MemStore) Events() []entity.VerificationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.VerificationEvent, len(m.events))
	copy(out, m.events)
	return out
}

// ShareholderRepository

func (m *MemStore) FindByUUID(ctx context.Context, id uuid.UUID) (*entity.Shareholder, error) {
	return m.findShareholder(func(s *entity.Shareholder) bool { return s.UUID == id })
}

func (m *MemStore) FindByUUIDAndIDSuffix(ctx context.Context, id uuid.UUID, idLastFour string) (*entity.Shareholder, error) {
	return m.findShareholder(func(s *entity.Shareholder) bool {
		stored, ok := s.IDLastFour.Get()
		return s.UUID == id && ok && stored == idLastFour
	})
}

func (m *MemStore) FindByCode(ctx context.Context, code string) (*entity.Shareholder, error) {
	return m.findShareholder(func(s *entity.Shareholder) bool { return s.Code == code })
}

func (m *MemStore) findShareholder(match func(*entity.Shareholder) bool) (*entity.Shareholder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for _, s := range m.shareholders {
		if match(s) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperror.ErrShareholderNotFound
}

func (m *MemStore) IncrementLoginCount(ctx context.Context, code string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoginCountErr != nil {
		return m.LoginCountErr
	}
	s, ok := m.shareholders[code]
	if !ok {
		return apperror.ErrShareholderNotFound
	}
	m.Writes++
	s.LoginCount++
	s.UpdatedAt = at
	return nil
}

// SessionRepository

func (m *MemStore) Create(ctx context.Context, session *entity.VerificationSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SessionCreateErr != nil {
		return m.SessionCreateErr
	}
	m.Writes++
	cp := *session
	m.sessions[session.LogID] = &cp
	return nil
}

func (m *MemStore) Update(ctx context.Context, session *entity.VerificationSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SessionUpdateErr != nil {
		return m.SessionUpdateErr
	}
	if _, ok := m.sessions[session.LogID]; !ok {
		return apperror.ErrSessionNotFound
	}
	m.Writes++
	cp := *session
	m.sessions[session.LogID] = &cp
	return nil
}

func (m *MemStore) FindByLogID(ctx context.Context, logID uuid.UUID) (*entity.VerificationSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	s, ok := m.sessions[logID]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemStore) FindLatestIssued(ctx context.Context, shareholderUUID uuid.UUID, phone string) (*entity.VerificationSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	var latest *entity.VerificationSession
	for _, s := range m.sessions {
		if s.ShareholderUUID != shareholderUUID || s.PhoneNumberUsed.String() != phone {
			continue
		}
		if !s.RandomCode.IsPresent() || s.CodeIssuedAt == nil {
			continue
		}
		if latest == nil || s.CodeIssuedAt.After(*latest.CodeIssuedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, apperror.ErrSessionNotFound
	}
	cp := *latest
	return &cp, nil
}

// EventRepository

func (m *MemStore) Append(ctx context.Context, event *entity.VerificationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.Writes++
	m.nextEventID++
	event.ID = m.nextEventID
	m.events = append(m.events, *event)
	return nil
}

func (m *MemStore) ListByLogID(ctx context.Context, logID uuid.UUID) ([]entity.VerificationEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	out := []entity.VerificationEvent{}
	for _, e := range m.events {
		if e.LogID == logID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ContactWriter

func (m *MemStore) SaveContactUpdate(ctx context.Context, shareholder *entity.Shareholder, diff entity.ContactDiff, session *entity.VerificationSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ContactErr != nil {
		return m.ContactErr
	}
	stored, ok := m.shareholders[shareholder.Code]
	if !ok {
		return apperror.ErrShareholderNotFound
	}
	m.Writes++
	diff.Apply(stored)
	stored.UpdateCount++
	stored.UpdatedAt = shareholder.UpdatedAt
	shareholder.UpdateCount = stored.UpdateCount

	if session != nil && diff.HasChanges() {
		if row, ok := m.sessions[session.LogID]; ok && row.ShareholderCode == shareholder.Code {
			row.ApplyContactDiff(diff)
			session.ApplyContactDiff(diff)
		}
	}
	return nil
}
