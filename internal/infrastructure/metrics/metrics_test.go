package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
)

func TestMetrics_ContadoresDeNegocio(t *testing.T) {
	m := New("")

	m.AllocationCommitted(entity.MovementSale, 8)
	m.AllocationCommitted(entity.MovementSale, 2)
	m.AllocationConflict()
	m.StockReceived(15)
	m.LotsExpired(0)
	m.LotsExpired(3)

	assert.Equal(t, 10.0, testutil.ToFloat64(m.UnitsAllocated.WithLabelValues("sale")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AllocationConflicts))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.UnitsReceived))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.LotsExpiredTotal))
}

func TestMetrics_HandlerExpone(t *testing.T) {
	m := New("farmacia")
	m.RecordHTTPRequest("GET", "/api/lots/:id", 200, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `farmacia_http_requests_total{method="GET",path="/api/lots/:id",status="200"} 1`))
}
