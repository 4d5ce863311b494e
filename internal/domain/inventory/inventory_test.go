package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/jhoicas/farmacia-lotes/internal/domain/inventory"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func days(n int) *time.Time {
	t := now.AddDate(0, 0, n)
	return &t
}

func lot(id string, qty int, expiry *time.Time, entry time.Time) *entity.Lot {
	return &entity.Lot{
		ID: id, Code: "L-" + id, ProductID: "p1",
		Quantity: qty, InitialQuantity: qty,
		EntryDate: entry, ExpiryDate: expiry, State: entity.LotStateActive,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden FEFO
// ──────────────────────────────────────────────────────────────────────────────

func TestSortFEFO_VencimientoLuegoEntradaLuegoID(t *testing.T) {
	lots := []*entity.Lot{
		lot("c", 1, nil, now.AddDate(0, 0, -10)),
		lot("b", 1, days(40), now.AddDate(0, 0, -1)),
		lot("z", 1, days(10), now.AddDate(0, 0, -2)),
		lot("a", 1, days(10), now.AddDate(0, 0, -2)),
		lot("y", 1, days(10), now.AddDate(0, 0, -5)),
	}
	inventory.SortFEFO(lots)

	var ids []string
	for _, l := range lots {
		ids = append(ids, l.ID)
	}
	// y entra antes que a/z (mismo vencimiento); a y z empatan y se ordenan por ID; sin vencimiento al final.
	assert.Equal(t, []string{"y", "a", "z", "b", "c"}, ids)
}

// ──────────────────────────────────────────────────────────────────────────────
// Planificación
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildPlan_ConsumeLotesEnOrdenDeVencimiento(t *testing.T) {
	// El lote que vence primero se creó último y tiene el ID mayor: igual va primero.
	lots := []*entity.Lot{
		lot("1", 10, days(90), now.AddDate(0, 0, -30)),
		lot("2", 10, days(60), now.AddDate(0, 0, -20)),
		lot("3", 10, days(30), now.AddDate(0, 0, -1)),
	}
	plan := inventory.BuildPlan("p1", 25, lots, decimal.NewFromInt(1000), now)

	require.Len(t, plan.Lines, 3)
	assert.Equal(t, "3", plan.Lines[0].LotID)
	assert.Equal(t, 10, plan.Lines[0].Quantity)
	assert.Equal(t, "2", plan.Lines[1].LotID)
	assert.Equal(t, 10, plan.Lines[1].Quantity)
	assert.Equal(t, "1", plan.Lines[2].LotID)
	assert.Equal(t, 5, plan.Lines[2].Quantity)
	assert.Equal(t, 25, plan.Satisfied)
	assert.Equal(t, 0, plan.Shortfall)
	assert.True(t, plan.Complete())
}

func TestBuildPlan_EjemploDosLotes(t *testing.T) {
	a := lot("A", 5, days(10), now.AddDate(0, 0, -3))
	b := lot("B", 10, days(40), now.AddDate(0, 0, -3))

	plan := inventory.BuildPlan("p1", 8, []*entity.Lot{b, a}, decimal.NewFromInt(500), now)
	require.Len(t, plan.Lines, 2)
	assert.Equal(t, "A", plan.Lines[0].LotID)
	assert.Equal(t, 5, plan.Lines[0].Quantity)
	assert.Equal(t, 5, plan.Lines[0].ExpectedBefore)
	assert.Equal(t, "B", plan.Lines[1].LotID)
	assert.Equal(t, 3, plan.Lines[1].Quantity)
	assert.Equal(t, 8, plan.Satisfied)
	assert.Equal(t, 0, plan.Shortfall)

	short := inventory.BuildPlan("p1", 20, []*entity.Lot{a, b}, decimal.NewFromInt(500), now)
	assert.Equal(t, 15, short.Satisfied)
	assert.Equal(t, 5, short.Shortfall)
	assert.False(t, short.Complete())
}

func TestBuildPlan_PrecioDelLoteOPrecioDelProducto(t *testing.T) {
	conPrecio := lot("A", 2, days(5), now)
	p := decimal.NewFromInt(1200)
	conPrecio.SalePrice = &p
	sinPrecio := lot("B", 2, days(6), now)

	plan := inventory.BuildPlan("p1", 4, []*entity.Lot{conPrecio, sinPrecio}, decimal.NewFromInt(900), now)
	require.Len(t, plan.Lines, 2)
	assert.True(t, plan.Lines[0].UnitPrice.Equal(decimal.NewFromInt(1200)))
	assert.True(t, plan.Lines[1].UnitPrice.Equal(decimal.NewFromInt(900)))
	assert.True(t, plan.Total().Equal(decimal.NewFromInt(4200)))
	assert.True(t, inventory.AverageUnitPrice(plan).Equal(decimal.NewFromInt(1050)))
}

func TestBuildPlan_OmiteLotesVencidosYRetirados(t *testing.T) {
	vencido := lot("V", 50, days(-1), now.AddDate(0, 0, -100))
	retirado := lot("R", 50, days(5), now.AddDate(0, 0, -100))
	retirado.State = entity.LotStateWithdrawn
	marcado := lot("M", 50, days(5), now.AddDate(0, 0, -100))
	marcado.State = entity.LotStateExpired
	bueno := lot("B", 3, days(20), now)

	plan := inventory.BuildPlan("p1", 5, []*entity.Lot{vencido, retirado, marcado, bueno}, decimal.Zero, now)
	require.Len(t, plan.Lines, 1)
	assert.Equal(t, "B", plan.Lines[0].LotID)
	assert.Equal(t, 2, plan.Shortfall)
}

func TestBuildPlan_EsRepetibleYNoMutaLotes(t *testing.T) {
	lots := []*entity.Lot{lot("B", 4, days(40), now), lot("A", 4, days(10), now)}
	first := inventory.BuildPlan("p1", 6, lots, decimal.NewFromInt(10), now)
	second := inventory.BuildPlan("p1", 6, lots, decimal.NewFromInt(10), now)

	assert.Equal(t, first, second)
	assert.Equal(t, "B", lots[0].ID, "el slice de entrada no se reordena")
	assert.Equal(t, 4, lots[1].Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Etiqueta de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeStatus_Prioridades(t *testing.T) {
	ventana := 30 * 24 * time.Hour
	lejano := []*entity.Lot{lot("a", 10, days(200), now)}
	proximo := []*entity.Lot{lot("a", 10, days(20), now)}
	vencido := []*entity.Lot{lot("a", 10, days(-2), now), lot("b", 10, days(200), now)}

	cases := []struct {
		name  string
		stock int
		min   int
		lots  []*entity.Lot
		want  entity.StockStatus
	}{
		{"sin stock gana a todo", 0, 5, vencido, entity.StockStatusOutOfStock},
		{"vencido gana a stock bajo", 3, 5, vencido, entity.StockStatusExpired},
		{"próximo a vencer", 3, 5, proximo, entity.StockStatusExpiringSoon},
		{"stock bajo", 5, 5, lejano, entity.StockStatusLowStock},
		{"normal", 10, 5, lejano, entity.StockStatusNormal},
		{"sin lotes con vencimiento", 10, 0, nil, entity.StockStatusNormal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, inventory.ComputeStatus(tc.stock, tc.min, tc.lots, now, ventana))
		})
	}
}

func TestEarliestExpiry_IgnoraLotesAgotados(t *testing.T) {
	agotado := lot("a", 0, days(1), now)
	l := lot("b", 3, days(9), now)
	e := inventory.EarliestExpiry([]*entity.Lot{agotado, l, lot("c", 1, nil, now)})
	require.NotNil(t, e)
	assert.True(t, e.Equal(*days(9)))
}

func TestWeightedPrice(t *testing.T) {
	got := inventory.WeightedPrice(10, decimal.NewFromInt(100), 30, decimal.NewFromInt(200))
	assert.True(t, got.Equal(decimal.NewFromInt(175)))
	assert.True(t, inventory.WeightedPrice(0, decimal.Zero, 0, decimal.Zero).IsZero())
}
