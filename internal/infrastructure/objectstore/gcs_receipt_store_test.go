package objectstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tenis-ops/internal/infrastructure/objectstore"
	"github.com/jhoicas/tenis-ops/pkg/config"
)

func TestObjectURL(t *testing.T) {
	got := objectstore.ObjectURL("https://storage.googleapis.com/", "comprobantes", "/receipts/c-1/s-1/venta.pdf")
	assert.Equal(t, "https://storage.googleapis.com/comprobantes/receipts/c-1/s-1/venta.pdf", got)
}

func TestNewGCSReceiptStore_SinBucket(t *testing.T) {
	_, err := objectstore.NewGCSReceiptStore(context.Background(), config.ReceiptsConfig{})
	assert.Error(t, err)
}
