// Package pdf genera la representación imprimible del reporte de
// valorización de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + "Valorización de Inventario" + Fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Artículo | Sucursal | Cant | Costo | Valor     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL: # artículos / VALOR TOTAL                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/invorya/ledger-api/internal/application/analytics"
	"github.com/invorya/ledger-api/internal/application/dto"
)

var _ analytics.ValuationPDFGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa analytics.ValuationPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateValuationPDF genera el PDF del reporte y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateValuationPDF(
	_ context.Context,
	companyName string,
	report *dto.ValuationReportDTO,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Valorización de Inventario", true).
		WithAuthor(companyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(companyName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, it := range report.Items {
		m.AddRows(tableItemRow(it))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la empresa (izq) y título + fecha de corte (der).
func headerRow(companyName string) core.Row {
	fecha := time.Now().Format("02/01/2006 15:04")
	return row.New(16).Add(
		col.New(7).Add(
			text.New(companyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("Valorización de Inventario", props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New("Corte: "+fecha, props.Text{
				Size: 9, Top: 8, Align: align.Right, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := func(size int, label string, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorWhite, Align: a, Top: 1,
		}))
	}
	return row.New(7).Add(
		header(2, "SKU", align.Left),
		header(4, "Artículo", align.Left),
		header(2, "Sucursal", align.Left),
		header(1, "Cant.", align.Right),
		header(1, "Costo", align.Right),
		header(2, "Valor", align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableItemRow(it dto.ValuationItemDTO) core.Row {
	cell := func(size int, value string, a align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 0.5}))
	}
	return row.New(5).Add(
		cell(2, it.SKU, align.Left),
		cell(4, it.ItemName, align.Left),
		cell(2, it.BranchID, align.Left),
		cell(1, it.Quantity.String(), align.Right),
		cell(1, it.UnitCost.StringFixed(2), align.Right),
		cell(2, it.TotalValue.StringFixed(2), align.Right),
	)
}

func totalsRow(report *dto.ValuationReportDTO) core.Row {
	return row.New(10).Add(
		col.New(7).Add(
			text.New(fmt.Sprintf("%d artículos valorizados", report.ItemCount), props.Text{
				Size: 9, Color: colorGray, Top: 2,
			}),
		),
		col.New(5).Add(
			text.New("VALOR TOTAL: $"+report.TotalValue.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
		),
	)
}
