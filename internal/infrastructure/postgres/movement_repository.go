package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/farmacia-lotes/internal/domain"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/jhoicas/farmacia-lotes/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, lot_id, product_id, movement_type, delta, quantity_before, quantity_after,
	unit_price, reason, actor_id, created_at`

// MovementRepo libro de movimientos sobre PostgreSQL. La tabla solo recibe INSERT.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Record inserta el movimiento. Un error aquí debe abortar la transacción del llamador.
func (r *MovementRepo) Record(ctx context.Context, m *entity.Movement) error {
	if !m.Consistent() {
		return fmt.Errorf("movimiento %s inconsistente (%d%+d=%d): %w", m.Type, m.QuantityBefore, m.Delta, m.QuantityAfter, domain.ErrValidation)
	}
	query := `
		INSERT INTO lot_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.LotID, m.ProductID, string(m.Type), m.Delta, m.QuantityBefore, m.QuantityAfter,
		m.UnitPrice, m.Reason, m.ActorID, m.CreatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("insert movement: %w: %w", domain.ErrValidation, err)
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func scanMovement(row scanner) (*entity.Movement, error) {
	var m entity.Movement
	var typ string
	var actor *string
	err := row.Scan(
		&m.ID, &m.LotID, &m.ProductID, &typ, &m.Delta, &m.QuantityBefore, &m.QuantityAfter,
		&m.UnitPrice, &m.Reason, &actor, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	if actor != nil {
		m.ActorID = *actor
	}
	return &m, nil
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var out []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListByLot historial del lote en orden cronológico.
func (r *MovementRepo) ListByLot(ctx context.Context, lotID string) ([]*entity.Movement, error) {
	if !validUUID(lotID) {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+movementColumns+` FROM lot_movements WHERE lot_id = $1 ORDER BY seq ASC`, lotID)
}

// ListByProduct movimientos del producto, más recientes primero, con rango opcional [from, to].
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM lot_movements
		WHERE product_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY seq DESC
		LIMIT $4 OFFSET $5`
	return r.list(ctx, query, productID, from, to, limit, offset)
}

// CountByProduct total de movimientos del producto.
func (r *MovementRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM lot_movements WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}
