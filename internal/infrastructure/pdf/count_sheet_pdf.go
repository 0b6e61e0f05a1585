// Package pdf genera la planilla de conteo físico de stock en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + filtro      │  fecha + usuario             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Variante | Sistema | Contado | Diferencia │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: instrucciones + QR de la planilla                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/Piecework-api/internal/application/inventory"
	"github.com/jhoicas/Piecework-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLight   = &props.Color{Red: 190, Green: 190, Blue: 190}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

var _ inventory.CountSheetRenderer = (*CountSheetRenderer)(nil)

// CountSheetRenderer implementa inventory.CountSheetRenderer usando Maroto v2.
type CountSheetRenderer struct {
	appName string
}

// NewCountSheetRenderer construye el renderer; appName aparece como autor del documento.
func NewCountSheetRenderer(appName string) *CountSheetRenderer {
	return &CountSheetRenderer{appName: appName}
}

// RenderCountSheet genera el PDF y devuelve sus bytes.
func (g *CountSheetRenderer) RenderCountSheet(_ context.Context, sheet *inventory.CountSheet) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Planilla de conteo de stock", true).
		WithAuthor(nonEmpty(g.appName, "piecework"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sheet))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	if len(sheet.Rows) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin productos con movimientos para el filtro indicado.", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}
	for _, r := range tableBalanceRows(sheet.Rows) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(sheet))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar planilla: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y filtro (izq), fecha y usuario (der).
func headerRow(sheet *inventory.CountSheet) core.Row {
	filter := "Todos los productos"
	if sheet.Product != "" {
		filter = "Producto: " + sheet.Product
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("PLANILLA DE CONTEO DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(filter, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Generada: "+sheet.GeneratedAt.Format("02/01/2006 15:04")+" UTC", props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
			text.New("Por: "+sheet.GeneratedBy, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Variante", 2, align.Left),
		h("Sistema", 2, align.Right),
		h("Contado", 2, align.Center),
		h("Diferencia", 2, align.Center),
	)
}

// tableBalanceRows: una fila por clave; Contado y Diferencia quedan para completar a mano.
func tableBalanceRows(rows []entity.StockBalance) []core.Row {
	blank := func() core.Col {
		return col.New(2).Add(text.New("____________", props.Text{
			Size: 8, Align: align.Center, Top: 1, Color: colorLight,
		}))
	}
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(r.Product, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(entity.VariantLabel(r.Variant), "—"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatUnits(r.Balance), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			blank(),
			blank(),
		))
	}
	return result
}

// footerRow: instrucciones y QR con la referencia de la planilla.
func footerRow(sheet *inventory.CountSheet) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(sheetReference(sheet), props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Registrar cada conteo como movimiento BALANCE con la cantidad contada.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Los saldos del sistema corresponden al momento de generación; "+
				"movimientos posteriores no figuran en esta planilla.", props.Text{
				Size: 7, Top: 12, Left: 3, Color: colorGray,
			}),
			text.New(fmt.Sprintf("%d filas", len(sheet.Rows)), props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 24, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func sheetReference(sheet *inventory.CountSheet) string {
	return fmt.Sprintf("conteo:%s:%s:%d", sheet.GeneratedAt.Format("20060102T150405Z"), sheet.GeneratedBy, len(sheet.Rows))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatUnits inserta puntos de miles.
// Ej: 25000 → "25.000", -1200 → "-1.200"
func formatUnits(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
