// Package objectstore guarda comprobantes de venta en Google Cloud Storage.
package objectstore

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/jhoicas/tenis-ops/internal/application/ports"
	"github.com/jhoicas/tenis-ops/pkg/config"
)

var _ ports.ReceiptStore = (*GCSReceiptStore)(nil)

// GCSReceiptStore implementa ports.ReceiptStore sobre un bucket de GCS.
type GCSReceiptStore struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

// NewGCSReceiptStore crea el cliente. Con CredentialsJSON vacío usa las credenciales por defecto
// del entorno (cuenta de servicio de Cloud Run o GOOGLE_APPLICATION_CREDENTIALS).
func NewGCSReceiptStore(ctx context.Context, cfg config.ReceiptsConfig) (*GCSReceiptStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("gcs: RECEIPTS_BUCKET es obligatorio")
	}
	var opts []option.ClientOption
	if strings.TrimSpace(cfg.CredentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: crear cliente: %w", err)
	}
	return &GCSReceiptStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Put sube el objeto y devuelve su URL pública.
func (s *GCSReceiptStore) Put(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	wc := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "private, max-age=0"

	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("gcs: escribir %s: %w", objectName, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("gcs: cerrar %s: %w", objectName, err)
	}
	return ObjectURL(s.baseURL, s.bucket, objectName), nil
}

// Close libera el cliente.
func (s *GCSReceiptStore) Close() error {
	return s.client.Close()
}

// ObjectURL arma la URL pública del objeto: <base>/<bucket>/<objeto>.
func ObjectURL(baseURL, bucket, objectName string) string {
	return strings.TrimRight(baseURL, "/") + "/" + bucket + "/" + strings.TrimLeft(objectName, "/")
}
