package sales

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jhoicas/tenis-ops/internal/domain/entity"
	"github.com/jhoicas/tenis-ops/internal/domain/repository"
)

// attachReceipts guarda el comprobante adjunto y el PDF de la venta. Nunca falla la venta:
// los errores se registran y se cuentan. Devuelve la URL que quedó asociada a la venta.
func (uc *SaleUseCase) attachReceipts(ctx context.Context, sale *entity.Sale, location *entity.Location, image []byte) string {
	if uc.store == nil {
		return ""
	}
	var url string
	if len(image) > 0 {
		contentType := http.DetectContentType(image)
		name := fmt.Sprintf("receipts/%s/%s/comprobante%s", sale.CompanyID, sale.ID, extensionFor(contentType))
		u, err := uc.store.Put(ctx, name, contentType, image)
		if err != nil {
			uc.receiptFailed(sale, "image_upload", err)
		} else {
			url = u
		}
	}
	if uc.renderer != nil {
		pdf, err := uc.renderer.RenderSaleReceipt(ctx, sale, location)
		if err != nil {
			uc.receiptFailed(sale, "render", err)
		} else {
			name := fmt.Sprintf("receipts/%s/%s/venta.pdf", sale.CompanyID, sale.ID)
			u, err := uc.store.Put(ctx, name, "application/pdf", pdf)
			if err != nil {
				uc.receiptFailed(sale, "pdf_upload", err)
			} else {
				url = u
			}
		}
	}
	if url == "" {
		return ""
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		return repos.Sales.SetReceiptURL(ctx, sale.CompanyID, sale.ID, url)
	})
	if err != nil {
		uc.receiptFailed(sale, "persist_url", err)
		return ""
	}
	return url
}

func (uc *SaleUseCase) receiptFailed(sale *entity.Sale, stage string, err error) {
	uc.metrics.ReceiptFailed(stage)
	uc.log.Warn().Err(err).
		Str("sale_id", sale.ID).
		Str("company_id", sale.CompanyID).
		Str("stage", stage).
		Msg("no se pudo guardar el comprobante de la venta")
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	}
	return ""
}
