package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/invorya/ledger-api/internal/domain"
	"github.com/invorya/ledger-api/internal/domain/entity"
	"github.com/invorya/ledger-api/internal/domain/repository"
)

var _ repository.UOMRepository = (*UOMRepo)(nil)

// UOMRepo implementación del puerto UOMRepository sobre PostgreSQL.
type UOMRepo struct {
	pool *pgxpool.Pool
}

// NewUOMRepository construye el adaptador de persistencia para unidades de medida.
func NewUOMRepository(pool *pgxpool.Pool) *UOMRepo {
	return &UOMRepo{pool: pool}
}

const uomColumns = `id, company_id, code, name, conversion_factor, active, created_at, updated_at`

// Create persiste una nueva unidad de medida.
func (r *UOMRepo) Create(uom *entity.UOM) error {
	query := `
		INSERT INTO uoms (` + uomColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(context.Background(), query,
		uom.ID, uom.CompanyID, uom.Code, uom.Name, uom.ConversionFactor, uom.Active,
		uom.CreatedAt, uom.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert uom: %w", err)
	}
	return nil
}

// GetByID obtiene una unidad de medida por ID.
func (r *UOMRepo) GetByID(id string) (*entity.UOM, error) {
	query := `SELECT ` + uomColumns + ` FROM uoms WHERE id = $1`
	return r.getOne(query, id)
}

// GetByCompanyAndCode obtiene una unidad por código dentro de una empresa.
func (r *UOMRepo) GetByCompanyAndCode(companyID, code string) (*entity.UOM, error) {
	query := `SELECT ` + uomColumns + ` FROM uoms WHERE company_id = $1 AND code = $2`
	return r.getOne(query, companyID, code)
}

func (r *UOMRepo) getOne(query string, args ...any) (*entity.UOM, error) {
	var u entity.UOM
	err := r.pool.QueryRow(context.Background(), query, args...).Scan(
		&u.ID, &u.CompanyID, &u.Code, &u.Name, &u.ConversionFactor, &u.Active,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get uom: %w", err)
	}
	return &u, nil
}

// Update actualiza una unidad de medida existente.
func (r *UOMRepo) Update(uom *entity.UOM) error {
	query := `
		UPDATE uoms SET code = $2, name = $3, conversion_factor = $4, active = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query,
		uom.ID, uom.Code, uom.Name, uom.ConversionFactor, uom.Active, uom.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update uom: %w", err)
	}
	return nil
}

// ListByCompany lista unidades de medida por empresa con paginación.
func (r *UOMRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.UOM, error) {
	query := `SELECT ` + uomColumns + ` FROM uoms
		WHERE company_id = $1 ORDER BY code ASC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list uoms: %w", err)
	}
	defer rows.Close()
	var list []*entity.UOM
	for rows.Next() {
		var u entity.UOM
		if err := rows.Scan(&u.ID, &u.CompanyID, &u.Code, &u.Name, &u.ConversionFactor, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan uom: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// Delete elimina una unidad de medida por ID.
func (r *UOMRepo) Delete(id string) error {
	_, err := r.pool.Exec(context.Background(), `DELETE FROM uoms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete uom: %w", err)
	}
	return nil
}
