package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/shareholder-portal/internal/domain/entity"
	"github.com/ignatzorin/shareholder-portal/internal/domain/valueobject"
	"github.com/ignatzorin/shareholder-portal/internal/pkg/apperror"
)

const sessionColumns = `
	log_id, shareholder_uuid, shareholder_code, action_type, verification_type,
	phone_number_used, random_code, code_issued_at, action_time, phone_verification_time,
	has_updated_data, updated_address, updated_home_phone, updated_mobile_phone
`

type SessionRepositoryAdapter struct {
	db *sqlx.DB
}

func NewSessionRepositoryAdapter(db *sqlx.DB) *SessionRepositoryAdapter {
	return &SessionRepositoryAdapter{db: db}
}

func (r *SessionRepositoryAdapter) Create(ctx context.Context, session *entity.VerificationSession) error {
	query := `
		INSERT INTO verification_sessions (` + sessionColumns + `)
		VALUES (:log_id, :shareholder_uuid, :shareholder_code, :action_type, :verification_type,
		:phone_number_used, :random_code, :code_issued_at, :action_time, :phone_verification_time,
		:has_updated_data, :updated_address, :updated_home_phone, :updated_mobile_phone)
	`
	if _, err := r.db.NamedExecContext(ctx, query, newSessionRow(session)); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to create verification session")
	}
	return nil
}

func (r *SessionRepositoryAdapter) Update(ctx context.Context, session *entity.VerificationSession) error {
	query := `
		UPDATE verification_sessions SET
			action_type = :action_type, verification_type = :verification_type,
			phone_number_used = :phone_number_used, random_code = :random_code,
			code_issued_at = :code_issued_at, action_time = :action_time,
			phone_verification_time = :phone_verification_time, has_updated_data = :has_updated_data,
			updated_address = :updated_address, updated_home_phone = :updated_home_phone,
			updated_mobile_phone = :updated_mobile_phone
		WHERE log_id = :log_id
	`
	res, err := r.db.NamedExecContext(ctx, query, newSessionRow(session))
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to update verification session")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepositoryAdapter) FindByLogID(ctx context.Context, logID uuid.UUID) (*entity.VerificationSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM verification_sessions WHERE log_id = $1`
	return r.getOne(ctx, query, logID)
}

func (r *SessionRepositoryAdapter) FindLatestIssued(ctx context.Context, shareholderUUID uuid.UUID, phone string) (*entity.VerificationSession, error) {
	query := `
		SELECT ` + sessionColumns + ` FROM verification_sessions
		WHERE shareholder_uuid = $1 AND phone_number_used = $2 AND random_code IS NOT NULL
		ORDER BY code_issued_at DESC
		LIMIT 1
	`
	return r.getOne(ctx, query, shareholderUUID, phone)
}

func (r *SessionRepositoryAdapter) getOne(ctx context.Context, query string, args ...interface{}) (*entity.VerificationSession, error) {
	var row sessionRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrSessionNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to load verification session")
	}
	return row.toEntity(), nil
}

type sessionRow struct {
	LogID                 uuid.UUID                `db:"log_id"`
	ShareholderUUID       uuid.UUID                `db:"shareholder_uuid"`
	ShareholderCode       string                   `db:"shareholder_code"`
	ActionType            string                   `db:"action_type"`
	VerificationType      string                   `db:"verification_type"`
	PhoneNumberUsed       valueobject.OptionalText `db:"phone_number_used"`
	RandomCode            valueobject.OptionalText `db:"random_code"`
	CodeIssuedAt          *time.Time               `db:"code_issued_at"`
	ActionTime            time.Time                `db:"action_time"`
	PhoneVerificationTime *time.Time               `db:"phone_verification_time"`
	HasUpdatedData        bool                     `db:"has_updated_data"`
	UpdatedAddress        valueobject.OptionalText `db:"updated_address"`
	UpdatedHomePhone      valueobject.OptionalText `db:"updated_home_phone"`
	UpdatedMobilePhone    valueobject.OptionalText `db:"updated_mobile_phone"`
}

func newSessionRow(s *entity.VerificationSession) sessionRow {
	return sessionRow{
		LogID:                 s.LogID,
		ShareholderUUID:       s.ShareholderUUID,
		ShareholderCode:       s.ShareholderCode,
		ActionType:            string(s.ActionType),
		VerificationType:      string(s.VerificationType),
		PhoneNumberUsed:       s.PhoneNumberUsed,
		RandomCode:            s.RandomCode,
		CodeIssuedAt:          s.CodeIssuedAt,
		ActionTime:            s.ActionTime,
		PhoneVerificationTime: s.PhoneVerificationTime,
		HasUpdatedData:        s.HasUpdatedData,
		UpdatedAddress:        s.UpdatedAddress,
		UpdatedHomePhone:      s.UpdatedHomePhone,
		UpdatedMobilePhone:    s.UpdatedMobilePhone,
	}
}

func (r sessionRow) toEntity() *entity.VerificationSession {
	return &entity.VerificationSession{
		LogID:                 r.LogID,
		ShareholderUUID:       r.ShareholderUUID,
		ShareholderCode:       r.ShareholderCode,
		ActionType:            valueobject.ActionType(r.ActionType),
		VerificationType:      valueobject.VerificationType(r.VerificationType),
		PhoneNumberUsed:       r.PhoneNumberUsed,
		RandomCode:            r.RandomCode,
		CodeIssuedAt:          r.CodeIssuedAt,
		ActionTime:            r.ActionTime,
		PhoneVerificationTime: r.PhoneVerificationTime,
		HasUpdatedData:        r.HasUpdatedData,
		UpdatedAddress:        r.UpdatedAddress,
		UpdatedHomePhone:      r.UpdatedHomePhone,
		UpdatedMobilePhone:    r.UpdatedMobilePhone,
	}
}
