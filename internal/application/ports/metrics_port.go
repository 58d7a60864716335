package ports

// MetricsRecorder puerto de salida para métricas operativas del núcleo.
// Los servicios aceptan nil y usan NoopMetrics en su lugar.
type MetricsRecorder interface {
	TransferTransition(event, status string)
	TransferRejected(event, reason string)
	StockAdjusted(changeType string, delta int)
	PairsFormed(quantity int)
	SaleCreated(status string)
	ReceiptFailed(stage string)
}

// NoopMetrics implementación vacía de MetricsRecorder.
type NoopMetrics struct{}

func (NoopMetrics) TransferTransition(string, string) {}
func (NoopMetrics) TransferRejected(string, string)   {}
func (NoopMetrics) StockAdjusted(string, int)         {}
func (NoopMetrics) PairsFormed(int)                   {}
func (NoopMetrics) SaleCreated(string)                {}
func (NoopMetrics) ReceiptFailed(string)              {}

// OrNoop devuelve m o NoopMetrics si es nil.
func OrNoop(m MetricsRecorder) MetricsRecorder {
	if m == nil {
		return NoopMetrics{}
	}
	return m
}
