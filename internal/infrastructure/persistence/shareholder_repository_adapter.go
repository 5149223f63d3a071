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

const shareholderColumns = `
	shareholder_code, uuid, name, id_last_four,
	original_address, updated_address,
	original_home_phone, updated_home_phone,
	original_mobile_phone, updated_mobile_phone,
	login_count, update_count, created_at, updated_at
`

type ShareholderRepositoryAdapter struct {
	db *sqlx.DB
}

func NewShareholderRepositoryAdapter(db *sqlx.DB) *ShareholderRepositoryAdapter {
	return &ShareholderRepositoryAdapter{db: db}
}

func (r *ShareholderRepositoryAdapter) FindByUUID(ctx context.Context, id uuid.UUID) (*entity.Shareholder, error) {
	query := `SELECT ` + shareholderColumns + ` FROM shareholders WHERE uuid = $1`
	return r.getOne(ctx, query, id)
}

func (r *ShareholderRepositoryAdapter) FindByUUIDAndIDSuffix(ctx context.Context, id uuid.UUID, idLastFour string) (*entity.Shareholder, error) {
	query := `SELECT ` + shareholderColumns + ` FROM shareholders WHERE uuid = $1 AND id_last_four = $2`
	return r.getOne(ctx, query, id, idLastFour)
}

func (r *ShareholderRepositoryAdapter) FindByCode(ctx context.Context, code string) (*entity.Shareholder, error) {
	query := `SELECT ` + shareholderColumns + ` FROM shareholders WHERE shareholder_code = $1`
	return r.getOne(ctx, query, code)
}

// IncrementLoginCount увеличивает счётчик входов на стороне БД,
// чтобы параллельные проверки не теряли инкременты.
func (r *ShareholderRepositoryAdapter) IncrementLoginCount(ctx context.Context, code string, at time.Time) error {
	query := `UPDATE shareholders SET login_count = login_count + 1, updated_at = $2 WHERE shareholder_code = $1`
	res, err := r.db.ExecContext(ctx, query, code, at)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to update login count")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.ErrShareholderNotFound
	}
	return nil
}

func (r *ShareholderRepositoryAdapter) getOne(ctx context.Context, query string, args ...interface{}) (*entity.Shareholder, error) {
	var row shareholderRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrShareholderNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to load shareholder")
	}
	return row.toEntity(), nil
}

type shareholderRow struct {
	Code              string                   `db:"shareholder_code"`
	UUID              uuid.UUID                `db:"uuid"`
	Name              valueobject.OptionalText `db:"name"`
	IDLastFour        valueobject.OptionalText `db:"id_last_four"`
	OriginalAddress   valueobject.OptionalText `db:"original_address"`
	UpdatedAddress    valueobject.OptionalText `db:"updated_address"`
	OriginalHomePhone valueobject.OptionalText `db:"original_home_phone"`
	UpdatedHomePhone  valueobject.OptionalText `db:"updated_home_phone"`
	OriginalMobile    valueobject.OptionalText `db:"original_mobile_phone"`
	UpdatedMobile     valueobject.OptionalText `db:"updated_mobile_phone"`
	LoginCount        int                      `db:"login_count"`
	UpdateCount       int                      `db:"update_count"`
	CreatedAt         time.Time                `db:"created_at"`
	UpdatedAt         time.Time                `db:"updated_at"`
}

func (r shareholderRow) toEntity() *entity.Shareholder {
	return &entity.Shareholder{
		Code:        r.Code,
		UUID:        r.UUID,
		Name:        r.Name,
		IDLastFour:  r.IDLastFour,
		Address:     entity.ContactValue{Original: r.OriginalAddress, Updated: r.UpdatedAddress},
		HomePhone:   entity.ContactValue{Original: r.OriginalHomePhone, Updated: r.UpdatedHomePhone},
		MobilePhone: entity.ContactValue{Original: r.OriginalMobile, Updated: r.UpdatedMobile},
		LoginCount:  r.LoginCount,
		UpdateCount: r.UpdateCount,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
