package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/farmacia-lotes/internal/domain"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/jhoicas/farmacia-lotes/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

const lotColumns = `id, code, product_id, location_id, quantity, initial_quantity, quantity_sold,
	purchase_price, sale_price, entry_date, expiry_date, supplier_id, notes, state, created_at, updated_at`

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLot(row scanner) (*entity.Lot, error) {
	var l entity.Lot
	var state string
	err := row.Scan(
		&l.ID, &l.Code, &l.ProductID, &l.LocationID, &l.Quantity, &l.InitialQuantity, &l.QuantitySold,
		&l.PurchasePrice, &l.SalePrice, &l.EntryDate, &l.ExpiryDate, &l.SupplierID, &l.Notes, &state,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.State = entity.LotState(state)
	return &l, nil
}

func collectLots(rows pgx.Rows) ([]*entity.Lot, error) {
	defer rows.Close()
	var out []*entity.Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Create inserta un lote nuevo. Código repetido dentro del producto => domain.ErrDuplicate.
func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	query := `
		INSERT INTO lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		lot.ID, lot.Code, lot.ProductID, lot.LocationID, lot.Quantity, lot.InitialQuantity, lot.QuantitySold,
		lot.PurchasePrice, lot.SalePrice, lot.EntryDate, lot.ExpiryDate, lot.SupplierID, lot.Notes, string(lot.State),
		lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("lote %s: %w", lot.Code, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote; nil si no existe.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	if !validUUID(id) {
		return nil, nil
	}
	l, err := scanLot(r.q.QueryRow(ctx, `SELECT `+lotColumns+` FROM lots WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return l, nil
}

// ActiveByProduct lotes con existencias no retirados, en orden FEFO.
func (r *LotRepo) ActiveByProduct(ctx context.Context, productID string) ([]*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots
		WHERE product_id = $1 AND quantity > 0 AND state <> 'withdrawn'
		ORDER BY expiry_date ASC NULLS LAST, entry_date ASC, id ASC`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list active lots: %w", err)
	}
	lots, err := collectLots(rows)
	if err != nil {
		return nil, fmt.Errorf("scan active lots: %w", err)
	}
	return lots, nil
}

// ApplyDelta actualiza la cantidad con el predicado quantity = expectedBefore; la fila solo cambia
// si nadie la modificó desde la lectura. Si no se actualiza nada se relee para clasificar el error.
func (r *LotRepo) ApplyDelta(ctx context.Context, lotID string, delta, expectedBefore int) (*entity.Lot, error) {
	if !validUUID(lotID) {
		return nil, fmt.Errorf("lote %s: %w", lotID, domain.ErrNotFound)
	}
	query := `
		UPDATE lots SET
			quantity = quantity + $2::int,
			quantity_sold = initial_quantity - (quantity + $2::int),
			state = CASE
				WHEN state IN ('expired', 'withdrawn') THEN state
				WHEN quantity + $2::int = 0 THEN 'depleted'
				ELSE 'active'
			END,
			updated_at = now()
		WHERE id = $1 AND quantity = $3 AND quantity::bigint + $2::int BETWEEN 0 AND initial_quantity
		RETURNING ` + lotColumns
	// Un delta fuera de INTEGER nunca cabe en el lote; se clasifica sin intentar el UPDATE.
	if delta >= math.MinInt32 && delta <= math.MaxInt32 {
		l, err := scanLot(r.q.QueryRow(ctx, query, lotID, delta, expectedBefore))
		if err == nil {
			return l, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("apply delta: %w", err)
		}
	}

	var code string
	var current, initial int
	err := r.q.QueryRow(ctx, `SELECT code, quantity, initial_quantity FROM lots WHERE id = $1`, lotID).Scan(&code, &current, &initial)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("lote %s: %w", lotID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("classify apply delta: %w", err)
	}
	switch {
	case current != expectedBefore:
		return nil, fmt.Errorf("lote %s: esperado %d, actual %d: %w", code, expectedBefore, current, domain.ErrConcurrentModification)
	case delta < -current:
		return nil, fmt.Errorf("lote %s: %w", code, domain.ErrInsufficientQuantity)
	default:
		return nil, fmt.Errorf("lote %s: %w", code, domain.ErrReturnExceedsOriginal)
	}
}

// TransitionState cambia el estado solo si el actual está en from.
func (r *LotRepo) TransitionState(ctx context.Context, lotID string, to entity.LotState, from ...entity.LotState) (*entity.Lot, error) {
	if !validUUID(lotID) {
		return nil, fmt.Errorf("lote %s: %w", lotID, domain.ErrNotFound)
	}
	allowed := make([]string, 0, len(from))
	for _, s := range from {
		allowed = append(allowed, string(s))
	}
	query := `
		UPDATE lots SET state = $2, updated_at = now()
		WHERE id = $1 AND (cardinality($3::text[]) = 0 OR state = ANY($3::text[]))
		RETURNING ` + lotColumns
	l, err := scanLot(r.q.QueryRow(ctx, query, lotID, string(to), allowed))
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("transition lot state: %w", err)
	}
	var state string
	err = r.q.QueryRow(ctx, `SELECT state FROM lots WHERE id = $1`, lotID).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("lote %s: %w", lotID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("classify transition: %w", err)
	}
	return nil, fmt.Errorf("lote %s en estado %s: %w", lotID, state, domain.ErrConcurrentModification)
}

// ListExpirable lotes vencidos a la fecha que aún no están marcados ni retirados.
func (r *LotRepo) ListExpirable(ctx context.Context, now time.Time) ([]*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots
		WHERE expiry_date < $1 AND state NOT IN ('expired', 'withdrawn')
		ORDER BY expiry_date ASC, entry_date ASC, id ASC`
	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list expirable lots: %w", err)
	}
	lots, err := collectLots(rows)
	if err != nil {
		return nil, fmt.Errorf("scan expirable lots: %w", err)
	}
	return lots, nil
}
