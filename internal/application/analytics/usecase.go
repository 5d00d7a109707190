package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/ledger-api/internal/application/dto"
	"github.com/invorya/ledger-api/internal/domain/repository"
)

const (
	defaultSlowMovingDays = 90
	defaultTurnoverDays   = 365
	reportCacheTTL        = 2 * time.Minute

	// Umbrales de clasificación ABC sobre el porcentaje acumulado de valor.
	// La comparación es inclusiva: el artículo que cruza exactamente el 80%
	// queda en A.
	abcThresholdA = 80
	abcThresholdB = 95
)

var (
	hundred = decimal.NewFromInt(100)
	cutA    = decimal.NewFromInt(abcThresholdA)
	cutB    = decimal.NewFromInt(abcThresholdB)
)

// UseCase implementa el motor analítico: valorización, clasificación ABC,
// lenta rotación, rotación y alertas de reorden. Todas las operaciones son
// lecturas puras sobre el estado del libro mayor; ninguna lo muta. El SQL
// agrega, el caso de uso clasifica y ordena.
type UseCase struct {
	analyticsRepo repository.AnalyticsRepository
	companyRepo   repository.CompanyRepository
	cache         ReportCache
	pdfGen        ValuationPDFGenerator
}

// NewUseCase construye el caso de uso. cache y pdfGen pueden ser nil.
func NewUseCase(
	analyticsRepo repository.AnalyticsRepository,
	companyRepo repository.CompanyRepository,
	cache ReportCache,
	pdfGen ValuationPDFGenerator,
) *UseCase {
	return &UseCase{
		analyticsRepo: analyticsRepo,
		companyRepo:   companyRepo,
		cache:         cache,
		pdfGen:        pdfGen,
	}
}

// Valuation valoriza el inventario: por cada fila de saldo, cantidad × costo
// promedio del artículo; los artículos sin costo aportan 0, no error.
// branchID y category vacíos no filtran.
func (uc *UseCase) Valuation(ctx context.Context, companyID, branchID, category string) (*dto.ValuationReportDTO, error) {
	cacheKey := fmt.Sprintf("valuation:%s:%s:%s", companyID, branchID, category)
	var cached dto.ValuationReportDTO
	if uc.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	rows, err := uc.analyticsRepo.GetValuationRows(ctx, companyID, branchID, category)
	if err != nil {
		return nil, fmt.Errorf("analytics: valorización: %w", err)
	}

	items := make([]dto.ValuationItemDTO, 0, len(rows))
	total := decimal.Zero
	for _, r := range rows {
		value := r.Quantity.Mul(r.UnitCost)
		total = total.Add(value)
		items = append(items, dto.ValuationItemDTO{
			ItemID:     r.ItemID,
			SKU:        r.SKU,
			ItemName:   r.ItemName,
			Category:   r.Category,
			BranchID:   r.BranchID,
			UOMID:      r.UOMID,
			Quantity:   r.Quantity,
			UnitCost:   r.UnitCost,
			TotalValue: value.Round(2),
		})
	}

	report := &dto.ValuationReportDTO{
		TotalValue: total.Round(2),
		ItemCount:  len(items),
		Items:      items,
	}
	uc.cacheSet(ctx, cacheKey, report)
	return report, nil
}

// ABCClassification segmenta artículos por contribución acumulada de valor:
// se ordena por valor descendente y se recorre acumulando; A mientras el
// acumulado ≤ 80%, B mientras ≤ 95%, C el resto. Los empates en la frontera
// los resuelve el orden, no una reevaluación.
func (uc *UseCase) ABCClassification(ctx context.Context, companyID string) (*dto.ABCReportDTO, error) {
	cacheKey := "abc:" + companyID
	var cached dto.ABCReportDTO
	if uc.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	rows, err := uc.analyticsRepo.GetItemValues(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("analytics: ABC: %w", err)
	}
	report := buildABCReport(rows)
	uc.cacheSet(ctx, cacheKey, report)
	return report, nil
}

// buildABCReport la caminata acumulativa pura (separada para test).
func buildABCReport(rows []repository.ItemValueRow) *dto.ABCReportDTO {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalValue.GreaterThan(rows[j].TotalValue)
	})

	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.TotalValue)
	}

	report := &dto.ABCReportDTO{
		TotalValue: total.Round(2),
		Items:      make([]dto.ABCItemDTO, 0, len(rows)),
	}
	cumulative := decimal.Zero
	for i, r := range rows {
		valuePct := decimal.Zero
		cumulativePct := hundred
		if total.IsPositive() {
			valuePct = r.TotalValue.Div(total).Mul(hundred)
			cumulative = cumulative.Add(r.TotalValue)
			cumulativePct = cumulative.Div(total).Mul(hundred)
		}

		category := "C"
		switch {
		case cumulativePct.LessThanOrEqual(cutA):
			category = "A"
			report.CountA++
		case cumulativePct.LessThanOrEqual(cutB):
			category = "B"
			report.CountB++
		default:
			report.CountC++
		}

		report.Items = append(report.Items, dto.ABCItemDTO{
			Rank:          i + 1,
			ItemID:        r.ItemID,
			SKU:           r.SKU,
			ItemName:      r.ItemName,
			TotalValue:    r.TotalValue.Round(2),
			ValuePct:      valuePct.Round(2),
			CumulativePct: cumulativePct.Round(2),
			Category:      category,
		})
	}
	return report
}

// SlowMoving reporta saldos cuyo movimiento más reciente tiene una antigüedad
// ≥ thresholdDays (default 90). Un saldo sin movimientos se excluye: su
// antigüedad no es determinable, no se marca.
func (uc *UseCase) SlowMoving(ctx context.Context, companyID, branchID string, thresholdDays int) (*dto.SlowMovingReportDTO, error) {
	if thresholdDays <= 0 {
		thresholdDays = defaultSlowMovingDays
	}
	rows, err := uc.analyticsRepo.GetLastMovementDates(ctx, companyID, branchID)
	if err != nil {
		return nil, fmt.Errorf("analytics: lenta rotación: %w", err)
	}

	now := time.Now()
	items := make([]dto.SlowMovingItemDTO, 0)
	for _, r := range rows {
		days := int(now.Sub(r.LastMovementAt).Hours() / 24)
		if days < thresholdDays {
			continue
		}
		items = append(items, dto.SlowMovingItemDTO{
			ItemID:            r.ItemID,
			SKU:               r.SKU,
			ItemName:          r.ItemName,
			BranchID:          r.BranchID,
			Quantity:          r.Quantity,
			LastMovementAt:    r.LastMovementAt.Format("2006-01-02"),
			DaysSinceMovement: days,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DaysSinceMovement > items[j].DaysSinceMovement
	})

	return &dto.SlowMovingReportDTO{
		ThresholdDays: thresholdDays,
		Count:         len(items),
		Items:         items,
	}, nil
}

// Turnover calcula la rotación por artículo activo en el período (default
// 365 días): salidas totales / stock actual, 0 si el stock es 0. Orden
// ascendente: los más lentos primero.
func (uc *UseCase) Turnover(ctx context.Context, companyID string, periodDays int) (*dto.TurnoverReportDTO, error) {
	if periodDays <= 0 {
		periodDays = defaultTurnoverDays
	}
	to := time.Now()
	from := to.AddDate(0, 0, -periodDays)

	rows, err := uc.analyticsRepo.GetOutQuantities(ctx, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics: rotación: %w", err)
	}

	items := make([]dto.TurnoverItemDTO, 0, len(rows))
	for _, r := range rows {
		ratio := decimal.Zero
		if r.CurrentStock.IsPositive() {
			ratio = r.TotalOut.Div(r.CurrentStock).Round(4)
		}
		items = append(items, dto.TurnoverItemDTO{
			ItemID:        r.ItemID,
			SKU:           r.SKU,
			ItemName:      r.ItemName,
			TotalOut:      r.TotalOut,
			CurrentStock:  r.CurrentStock,
			TurnoverRatio: ratio,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].TurnoverRatio.LessThan(items[j].TurnoverRatio)
	})

	return &dto.TurnoverReportDTO{PeriodDays: periodDays, Items: items}, nil
}

// LowStock devuelve las alertas de reorden: artículos con reorderPoint > 0
// cuyo saldo en alguna sucursal es ≤ reorderPoint.
func (uc *UseCase) LowStock(ctx context.Context, companyID string) (*dto.LowStockReportDTO, error) {
	rows, err := uc.analyticsRepo.GetLowStockRows(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("analytics: punto de reorden: %w", err)
	}

	items := make([]dto.LowStockItemDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.LowStockItemDTO{
			ItemID:       r.ItemID,
			SKU:          r.SKU,
			ItemName:     r.ItemName,
			BranchID:     r.BranchID,
			BranchName:   r.BranchName,
			UOMID:        r.UOMID,
			Quantity:     r.Quantity,
			ReorderPoint: r.ReorderPoint,
			Deficit:      r.ReorderPoint.Sub(r.Quantity),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Deficit.GreaterThan(items[j].Deficit)
	})

	return &dto.LowStockReportDTO{Count: len(items), Items: items}, nil
}

// ValuationPDF genera la representación PDF del reporte de valorización.
func (uc *UseCase) ValuationPDF(ctx context.Context, companyID, branchID, category string) ([]byte, error) {
	if uc.pdfGen == nil {
		return nil, fmt.Errorf("generador PDF no configurado")
	}
	report, err := uc.Valuation(ctx, companyID, branchID, category)
	if err != nil {
		return nil, err
	}
	companyName := companyID
	if uc.companyRepo != nil {
		if company, err := uc.companyRepo.GetByID(companyID); err == nil && company != nil {
			companyName = company.Name
		}
	}
	return uc.pdfGen.GenerateValuationPDF(ctx, companyName, report)
}

// cacheGet / cacheSet best-effort: un fallo de cache nunca tumba el reporte.
func (uc *UseCase) cacheGet(ctx context.Context, key string, dest any) bool {
	if uc.cache == nil {
		return false
	}
	hit, err := uc.cache.Get(ctx, key, dest)
	return err == nil && hit
}

func (uc *UseCase) cacheSet(ctx context.Context, key string, value any) {
	if uc.cache == nil {
		return
	}
	_ = uc.cache.Set(ctx, key, value, reportCacheTTL)
}
