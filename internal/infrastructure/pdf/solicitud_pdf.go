// Package pdf genera el comprobante imprimible de una solicitud de material.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: tipo de solicitud  │  Folio + Fecha + Estado        │
//	│  SOLICITA / AUTORIZA                                         │
//	│  TABLA: Código | Artículo | Cantidad | P.Unit | Importe      │
//	│  OBSERVACIONES                                               │
//	│  FIRMAS + QR con el folio                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/solicitud"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

var _ solicitud.PDFGenerator = (*SolicitudPDFGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// SolicitudPDFGenerator comprobante de solicitud con Maroto v2.
type SolicitudPDFGenerator struct {
	company string
}

// NewSolicitudPDFGenerator construye el generador; company aparece como autor y en el encabezado.
func NewSolicitudPDFGenerator(company string) *SolicitudPDFGenerator {
	return &SolicitudPDFGenerator{company: company}
}

// Generate arma el documento y devuelve sus bytes.
func (g *SolicitudPDFGenerator) Generate(s *entity.Solicitud) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("pdf: solicitud nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Solicitud "+s.Folio, true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(g.company, s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(peopleRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(s.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	if total, ok := itemsTotal(s.Items); ok {
		m.AddRows(totalRow(total))
	}
	if strings.TrimSpace(s.Observaciones) != "" {
		m.AddRows(notesRows(s.Observaciones)...)
	}
	m.AddRows(line.NewRow(8))
	m.AddRows(signatureRow(s))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(company string, s *entity.Solicitud) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(company, "Almacén"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("SOLICITUD DE "+string(s.Tipo), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(s.Folio, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+s.Fecha.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Estado: "+string(s.Estado), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 13,
			}),
		),
	)
}

func peopleRow(s *entity.Solicitud) core.Row {
	return row.New(12).Add(
		col.New(6).Add(
			text.New("SOLICITA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(s.SolicitanteNombre, fmt.Sprintf("Usuario %d", s.UsuarioSolicitaID)),
				props.Text{Size: 9, Top: 6}),
		),
		col.New(6).Add(
			text.New("AUTORIZA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(s.AutorizadorNombre, "—"), props.Text{Size: 9, Top: 6}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Artículo", 5, align.Left),
		h("Cantidad", 1, align.Center),
		h("P. Unit.", 2, align.Right),
		h("Importe", 2, align.Right),
	)
}

func itemRows(items []entity.SolicitudItem) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		price, amount := "—", "—"
		if it.PrecioUnitario != nil {
			price = "$" + formatMoney(*it.PrecioUnitario)
			amount = "$" + formatMoney(it.PrecioUnitario.Mul(decimal.NewFromInt(it.Cantidad)))
		}
		out = append(out, row.New(7).Add(
			col.New(2).Add(text.New(nonEmpty(it.ArticleCode, fmt.Sprint(it.ArticleID)), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(it.ArticleName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprint(it.Cantidad), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(price, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(amount, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

// itemsTotal suma de importes; ok=false si ninguna partida trae precio.
func itemsTotal(items []entity.SolicitudItem) (decimal.Decimal, bool) {
	total, priced := decimal.Zero, false
	for _, it := range items {
		if it.PrecioUnitario == nil {
			continue
		}
		priced = true
		total = total.Add(it.PrecioUnitario.Mul(decimal.NewFromInt(it.Cantidad)))
	}
	return total, priced
}

func totalRow(total decimal.Decimal) core.Row {
	return row.New(8).Add(
		col.New(8),
		col.New(2).Add(text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1, Right: 2})),
		col.New(2).Add(text.New("$"+formatMoney(total), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1, Right: 1, Color: colorPrimary,
		})),
	)
}

func notesRows(notes string) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("OBSERVACIONES", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
	}
	for _, l := range strings.Split(notes, "\n") {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(l, props.Text{Size: 7.5, Color: colorGray, Left: 2}),
		)))
	}
	return rows
}

func signatureRow(s *entity.Solicitud) core.Row {
	sign := func(label string) core.Col {
		return col.New(4).Add(
			text.New("______________________________", props.Text{Size: 8, Align: align.Center, Top: 14}),
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 19, Color: colorGray}),
		)
	}
	return row.New(30).Add(
		sign("Solicita"),
		sign("Autoriza"),
		col.New(4).Add(code.NewQr(s.Folio, props.Rect{Percent: 90, Center: true})),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney dos decimales con punto de miles y coma decimal.
// Ej: 25000.5 → "25.000,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "," + frac
	if neg {
		return "-" + out
	}
	return out
}
