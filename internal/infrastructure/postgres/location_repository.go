package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/farmacia-lotes/internal/domain"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/jhoicas/farmacia-lotes/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación de LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de persistencia para ubicaciones.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una nueva ubicación.
func (r *LocationRepo) Create(ctx context.Context, loc *entity.Location) error {
	query := `
		INSERT INTO locations (id, code, shelf, slot, name, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, loc.ID, loc.Code, loc.Shelf, loc.Slot, loc.Name, loc.Active, loc.CreatedAt, loc.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("ubicación %s: %w", loc.Code, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func scanLocation(row scanner) (*entity.Location, error) {
	var l entity.Location
	err := row.Scan(&l.ID, &l.Code, &l.Shelf, &l.Slot, &l.Name, &l.Active, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByID obtiene una ubicación; nil si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	if !validUUID(id) {
		return nil, nil
	}
	query := `SELECT id, code, shelf, slot, name, active, created_at, updated_at FROM locations WHERE id = $1`
	l, err := scanLocation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

// FirstActive ubicación activa de menor código.
func (r *LocationRepo) FirstActive(ctx context.Context) (*entity.Location, error) {
	query := `
		SELECT id, code, shelf, slot, name, active, created_at, updated_at
		FROM locations WHERE active ORDER BY code ASC LIMIT 1`
	l, err := scanLocation(r.q.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("first active location: %w", err)
	}
	return l, nil
}

// ListActive ubicaciones activas ordenadas por código.
func (r *LocationRepo) ListActive(ctx context.Context) ([]*entity.Location, error) {
	query := `
		SELECT id, code, shelf, slot, name, active, created_at, updated_at
		FROM locations WHERE active ORDER BY code ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var out []*entity.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
