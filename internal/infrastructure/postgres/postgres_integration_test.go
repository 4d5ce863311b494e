package postgres_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/farmacia-lotes/internal/application/inventory"
	"github.com/jhoicas/farmacia-lotes/internal/domain"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/jhoicas/farmacia-lotes/internal/infrastructure/postgres"
)

// ──────────────────────────────────────────────────────────────────────────────
// Contenedor PostgreSQL
// ──────────────────────────────────────────────────────────────────────────────

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("prueba de integración omitida con -short")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("farmacia_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("docker no disponible: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := postgres.NewMigrator(dsn, nil)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	pool, err := postgres.NewPoolFromDSN(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

type pgFixture struct {
	ctx     context.Context
	pool    *pgxpool.Pool
	engine  *inventory.AllocationEngine
	sweeper *inventory.ExpirySweeper
	product string
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	pool := newTestPool(t)
	ctx := context.Background()

	productID := "prod-" + uuid.NewString()[:8]
	require.NoError(t, postgres.NewProductRepository(pool).Upsert(ctx, &entity.Product{
		ID: productID, SKU: "IBU-400", Name: "Ibuprofeno 400mg", SalePrice: decimal.RequireFromString("3.20"), MinStock: 2,
	}))
	locations := postgres.NewLocationRepository(pool)
	_, err := inventory.NewLocationService(locations).Create(ctx, inventory.CreateLocationInput{Shelf: "E01", Slot: "C01"})
	require.NoError(t, err)

	tx := postgres.NewTxRunner(pool)
	lots := postgres.NewLotRepository(pool)
	reconciler := inventory.NewStockReconciler(tx, nil, inventory.ReconcileConfig{}, nil)
	engine := inventory.NewAllocationEngine(tx, lots, postgres.NewMovementRepository(pool), postgres.NewProductRepository(pool),
		inventory.NewDefaultLocationResolver(locations), reconciler)
	return &pgFixture{
		ctx:     ctx,
		pool:    pool,
		engine:  engine,
		sweeper: inventory.NewExpirySweeper(tx, lots, reconciler, nil, nil),
		product: productID,
	}
}

func (f *pgFixture) receive(t *testing.T, code string, qty int, expiry *time.Time) *entity.Lot {
	t.Helper()
	lot, err := f.engine.ReceiveStock(f.ctx, inventory.ReceiveStockInput{
		ProductID: f.product, Quantity: qty, Code: code, ExpiryDate: expiry, PurchasePrice: decimal.RequireFromString("1.10"),
	})
	require.NoError(t, err)
	return lot
}

func inDays(n int) *time.Time {
	t := time.Now().Add(time.Duration(n) * 24 * time.Hour).UTC().Truncate(time.Microsecond)
	return &t
}

// ──────────────────────────────────────────────────────────────────────────────
// Pruebas
// ──────────────────────────────────────────────────────────────────────────────

func TestPostgres_AsignacionFEFOYMovimientos(t *testing.T) {
	f := newPGFixture(t)
	a := f.receive(t, "A", 5, inDays(10))
	b := f.receive(t, "B", 10, inDays(40))
	f.receive(t, "C", 3, nil)

	_, lines, err := f.engine.Allocate(f.ctx, f.product, 8, inventory.CommitInput{ActorID: "cajero-1", Reason: "venta {lot}"})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, a.ID, lines[0].LotID)
	assert.Equal(t, b.ID, lines[1].LotID)

	gotA, err := f.engine.GetLot(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, gotA.Quantity)
	assert.Equal(t, entity.LotStateDepleted, gotA.State)

	movs, err := f.engine.MovementsForLot(f.ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, -3, movs[1].Delta)
	assert.Equal(t, "venta B", movs[1].Reason)
	assert.Equal(t, "cajero-1", movs[1].ActorID)

	product, err := postgres.NewProductRepository(f.pool).GetByID(f.ctx, f.product)
	require.NoError(t, err)
	assert.Equal(t, 10, product.StockActual)
}

func TestPostgres_ApplyDeltaClasificaErrores(t *testing.T) {
	f := newPGFixture(t)
	lot := f.receive(t, "A", 5, inDays(60))
	repo := postgres.NewLotRepository(f.pool)

	_, err := repo.ApplyDelta(f.ctx, lot.ID, -1, 4)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	_, err = repo.ApplyDelta(f.ctx, lot.ID, -6, 5)
	assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)
	_, err = repo.ApplyDelta(f.ctx, lot.ID, 1, 5)
	assert.ErrorIs(t, err, domain.ErrReturnExceedsOriginal)
	_, err = repo.ApplyDelta(f.ctx, lot.ID, math.MaxInt, 5)
	assert.ErrorIs(t, err, domain.ErrReturnExceedsOriginal)
	_, err = repo.ApplyDelta(f.ctx, lot.ID, math.MinInt, 5)
	assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)
	_, err = repo.ApplyDelta(f.ctx, uuid.NewString(), -1, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_ConcurrenciaUnSoloGanador(t *testing.T) {
	f := newPGFixture(t)
	lot := f.receive(t, "A", 5, inDays(30))

	plan, err := f.engine.PlanAllocation(f.ctx, f.product, 4)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.engine.CommitAllocation(f.ctx, plan, inventory.CommitInput{})
		}(i)
	}
	wg.Wait()

	ok, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrAllocationConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)

	got, err := f.engine.GetLot(f.ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
}

func TestPostgres_BarridoDeVencidos(t *testing.T) {
	f := newPGFixture(t)
	lot := f.receive(t, "A", 5, inDays(1))

	n, err := f.sweeper.SweepExpired(f.ctx, time.Now().Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.engine.GetLot(f.ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LotStateExpired, got.State)
	assert.Equal(t, 5, got.Quantity)
}

func TestPostgres_LibroDeSoloInsercion(t *testing.T) {
	f := newPGFixture(t)
	f.receive(t, "A", 5, nil)

	_, err := f.pool.Exec(f.ctx, `UPDATE lot_movements SET delta = 0`)
	assert.Error(t, err)
	_, err = f.pool.Exec(f.ctx, `DELETE FROM lot_movements`)
	assert.Error(t, err)
}
