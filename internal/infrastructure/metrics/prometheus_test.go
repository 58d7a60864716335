package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tenis-ops/internal/infrastructure/metrics"
)

func TestMetrics_StockAdjustedSeparaDireccion(t *testing.T) {
	m := metrics.New()
	m.StockAdjusted("sale", -2)
	m.StockAdjusted("entry", 5)
	m.StockAdjusted("transfer_reception_rejected", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StockAdjustments.WithLabelValues("sale")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StockUnits.WithLabelValues("sale", "out")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.StockUnits.WithLabelValues("entry", "in")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StockAdjustments.WithLabelValues("transfer_reception_rejected")))
}

func TestMetrics_TransferenciasYPares(t *testing.T) {
	m := metrics.New()
	m.TransferTransition("accept", "accepted")
	m.TransferTransition("accept", "accepted")
	m.TransferRejected("assign_courier", "conflict")
	m.PairsFormed(3)
	m.PairsFormed(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TransferTransitions.WithLabelValues("accept", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransferRejections.WithLabelValues("assign_courier", "conflict")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.PairsFormedTotal))
}

func TestMetrics_ObserveHTTP(t *testing.T) {
	m := metrics.New()
	m.ObserveHTTP("POST", "/api/sales", 201, 40*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/sales", "201")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration))
}
