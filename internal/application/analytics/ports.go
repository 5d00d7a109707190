package analytics

import (
	"context"
	"time"

	"github.com/invorya/ledger-api/internal/application/dto"
)

// ReportCache cachea reportes analíticos serializados con TTL corto. Los
// reportes son snapshots de solo lectura: toleran consistencia eventual, así
// que un cache es una decoración segura. Un cache nil desactiva la capa.
type ReportCache interface {
	// Get deserializa el valor cacheado en dest; devuelve false si no hay hit.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// ValuationPDFGenerator genera la representación PDF del reporte de
// valorización (implementación en infrastructure/pdf).
type ValuationPDFGenerator interface {
	GenerateValuationPDF(ctx context.Context, companyName string, report *dto.ValuationReportDTO) ([]byte, error)
}
