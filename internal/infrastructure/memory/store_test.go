package memory

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-lotes/internal/domain"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/jhoicas/farmacia-lotes/internal/domain/repository"
)

func seedLot(t *testing.T, s *Store, id string, qty int, expiry *time.Time) {
	t.Helper()
	err := s.Lots().Create(context.Background(), &entity.Lot{
		ID: id, Code: id, ProductID: "p1", Quantity: qty, InitialQuantity: qty,
		EntryDate: time.Now(), ExpiryDate: expiry, State: entity.LotStateActive,
	})
	require.NoError(t, err)
}

func TestLotRepo_ApplyDeltaClasificaErrores(t *testing.T) {
	s := NewStore()
	seedLot(t, s, "L1", 5, nil)
	ctx := context.Background()

	_, err := s.Lots().ApplyDelta(ctx, "nope", -1, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Lots().ApplyDelta(ctx, "L1", -1, 4)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	_, err = s.Lots().ApplyDelta(ctx, "L1", -6, 5)
	assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)

	_, err = s.Lots().ApplyDelta(ctx, "L1", 1, 5)
	assert.ErrorIs(t, err, domain.ErrReturnExceedsOriginal)

	lot, err := s.Lots().ApplyDelta(ctx, "L1", -5, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, lot.Quantity)
	assert.Equal(t, 5, lot.QuantitySold)
	assert.Equal(t, entity.LotStateDepleted, lot.State)
}

func TestLotRepo_ApplyDeltaExtremosNoDesbordan(t *testing.T) {
	s := NewStore()
	seedLot(t, s, "L1", 5, nil)
	ctx := context.Background()

	_, err := s.Lots().ApplyDelta(ctx, "L1", math.MaxInt, 5)
	assert.ErrorIs(t, err, domain.ErrReturnExceedsOriginal)

	_, err = s.Lots().ApplyDelta(ctx, "L1", math.MinInt, 5)
	assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)

	lot, err := s.Lots().GetByID(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, 5, lot.Quantity)
}

func TestStore_RunDescartaCambiosSiFalla(t *testing.T) {
	s := NewStore()
	seedLot(t, s, "L1", 5, nil)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(lots repository.LotRepository, _ repository.MovementRepository, _ repository.ProductRepository) error {
		if _, err := lots.ApplyDelta(ctx, "L1", -3, 5); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	lot, err := s.Lots().GetByID(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, 5, lot.Quantity)
}

func TestLotRepo_ActiveByProductOrdenFEFO(t *testing.T) {
	s := NewStore()
	soon := time.Now().Add(24 * time.Hour)
	late := time.Now().Add(72 * time.Hour)
	seedLot(t, s, "SIN-VTO", 1, nil)
	seedLot(t, s, "TARDE", 1, &late)
	seedLot(t, s, "PRONTO", 1, &soon)
	seedLot(t, s, "VACIO", 0, &soon)

	lots, err := s.Lots().ActiveByProduct(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, lots, 3)
	assert.Equal(t, []string{"PRONTO", "TARDE", "SIN-VTO"}, []string{lots[0].ID, lots[1].ID, lots[2].ID})
}

func TestLotRepo_TransitionStateExigeOrigen(t *testing.T) {
	s := NewStore()
	seedLot(t, s, "L1", 5, nil)
	ctx := context.Background()

	_, err := s.Lots().TransitionState(ctx, "L1", entity.LotStateExpired, entity.LotStateDepleted)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	lot, err := s.Lots().TransitionState(ctx, "L1", entity.LotStateWithdrawn, entity.LotStateActive)
	require.NoError(t, err)
	assert.Equal(t, entity.LotStateWithdrawn, lot.State)
}

func TestMovementRepo_RechazaAritmeticaInconsistente(t *testing.T) {
	s := NewStore()
	err := s.Movements().Record(context.Background(), &entity.Movement{
		ID: "m1", LotID: "L1", ProductID: "p1", Type: entity.MovementSale, Delta: -2, QuantityBefore: 5, QuantityAfter: 4,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
