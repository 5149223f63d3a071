package repository

import (
	"context"

	"github.com/ignatzorin/shareholder-portal/internal/domain/entity"
)

// ContactWriter записывает изменения контактов акционера и его сессии одной транзакцией.
type ContactWriter interface {
	// SaveContactUpdate сохраняет переопределения и счётчик обновлений акционера.
	// session может быть nil, тогда строка журнала не затрагивается.
	SaveContactUpdate(ctx context.Context, shareholder *entity.Shareholder, diff entity.ContactDiff, session *entity.VerificationSession) error
}
