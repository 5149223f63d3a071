package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/shareholder-portal/internal/db"
	"github.com/ignatzorin/shareholder-portal/internal/domain/entity"
	"github.com/ignatzorin/shareholder-portal/internal/pkg/apperror"
)

// Имена колонок переопределений. Одинаковы в shareholders и verification_sessions.
var updatedColumns = map[entity.ContactField]string{
	entity.FieldAddress:     "updated_address",
	entity.FieldHomePhone:   "updated_home_phone",
	entity.FieldMobilePhone: "updated_mobile_phone",
}

type ContactRepositoryAdapter struct {
	db *sqlx.DB
}

func NewContactRepositoryAdapter(db *sqlx.DB) *ContactRepositoryAdapter {
	return &ContactRepositoryAdapter{db: db}
}

// SaveContactUpdate пишет только изменённые поля, но update_count и updated_at
// обновляет всегда. Строка сессии меняется только при наличии изменений.
// После фиксации переопределения переносятся и в shareholder.
func (r *ContactRepositoryAdapter) SaveContactUpdate(ctx context.Context, shareholder *entity.Shareholder, diff entity.ContactDiff, session *entity.VerificationSession) error {
	err := db.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		updateCount, err := updateShareholderContacts(ctx, tx, shareholder, diff)
		if err != nil {
			return err
		}
		shareholder.UpdateCount = updateCount

		if session == nil || !diff.HasChanges() {
			return nil
		}
		return markSessionUpdated(ctx, tx, session, diff)
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to save contact update")
	}
	diff.Apply(shareholder)
	return nil
}

func updateShareholderContacts(ctx context.Context, tx *sqlx.Tx, s *entity.Shareholder, diff entity.ContactDiff) (int, error) {
	sets := make([]string, 0, len(diff.Changes)+2)
	args := []interface{}{s.Code}
	for _, change := range diff.Changes {
		args = append(args, change.New)
		sets = append(sets, fmt.Sprintf("%s = $%d", updatedColumns[change.Field], len(args)))
	}
	args = append(args, s.UpdatedAt)
	sets = append(sets, "update_count = update_count + 1", fmt.Sprintf("updated_at = $%d", len(args)))

	query := `UPDATE shareholders SET ` + strings.Join(sets, ", ") + ` WHERE shareholder_code = $1 RETURNING update_count`

	var updateCount int
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&updateCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperror.ErrShareholderNotFound
		}
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to update shareholder contacts")
	}
	return updateCount, nil
}

func markSessionUpdated(ctx context.Context, tx *sqlx.Tx, session *entity.VerificationSession, diff entity.ContactDiff) error {
	sets := []string{"has_updated_data = TRUE"}
	args := []interface{}{session.LogID, session.ShareholderCode}
	for _, change := range diff.Changes {
		args = append(args, change.New)
		sets = append(sets, fmt.Sprintf("%s = $%d", updatedColumns[change.Field], len(args)))
	}

	query := `UPDATE verification_sessions SET ` + strings.Join(sets, ", ") + ` WHERE log_id = $1 AND shareholder_code = $2`
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to update verification session")
	}
	session.ApplyContactDiff(diff)
	return nil
}
