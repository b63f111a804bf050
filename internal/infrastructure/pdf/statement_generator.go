// Package pdf genera el estado de cuenta (settlement statement) del conductor.
//
// Layout de la página Letter:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Carrier + USDOT/MC   │  N° Settlement + Periodo     │
//	│  CONDUCTOR: nombre + número + tipo de pago                   │
//	│  TABLA: Load | Ruta | Entregada | Millas | Pago              │
//	│  TOTALES: Gross / Deductions / NET PAY                       │
//	│  FOOTER: QR con el número + leyenda                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/jhoicas/tms-settlements/internal/application/settlement"
	"github.com/jhoicas/tms-settlements/internal/domain/entity"
	"github.com/jhoicas/tms-settlements/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 22, Green: 54, Blue: 92}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const dateLayout = "01/02/2006"

// ── Generator ─────────────────────────────────────────────────────────────────

var _ settlement.StatementPDFGenerator = (*StatementGenerator)(nil)

// StatementGenerator implementa settlement.StatementPDFGenerator usando Maroto v2.
type StatementGenerator struct{}

// NewStatementGenerator construye el generador.
func NewStatementGenerator() *StatementGenerator { return &StatementGenerator{} }

// GenerateStatementPDF genera el PDF y devuelve sus bytes.
func (g *StatementGenerator) GenerateStatementPDF(
	_ context.Context,
	s *entity.Settlement,
	company *entity.Company,
	driver *entity.Driver,
	lines []entity.SettlementLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Driver Settlement "+s.SettlementNumber, true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(s, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(driverRow(driver))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableLoadRows(lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(s))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(s))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(s *entity.Settlement, company *entity.Company) core.Row {
	authority := "USDOT " + nonEmpty(company.DOTNumber, "-")
	if company.MCNumber != "" {
		authority += "   |   MC " + company.MCNumber
	}
	period := s.PeriodStart.Format(dateLayout) + " - " + s.PeriodEnd.Format(dateLayout)

	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(authority, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("DRIVER SETTLEMENT", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(s.SettlementNumber, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 6,
			}),
			text.New("Period: "+period, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func driverRow(d *entity.Driver) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("DRIVER", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(d.FullName(), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Driver #: %s   |   Pay type: %s   |   Rate: %s",
				nonEmpty(d.DriverNumber, "-"), nonEmpty(d.PayType, "-"), d.PayRate.String(),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Load #", 2, align.Left),
		h("Route", 4, align.Left),
		h("Delivered", 2, align.Center),
		h("Miles", 2, align.Right),
		h("Pay", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableLoadRows(lines []entity.SettlementLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		delivered := "-"
		if l.DeliveredAt != nil {
			delivered = l.DeliveredAt.Format(dateLayout)
		}
		route := nonEmpty(l.PickupCity, "?") + " -> " + nonEmpty(l.DeliveryCity, "?")
		rows = append(rows, row.New(7).Add(
			col.New(2).Add(text.New(l.LoadNumber, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(route, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(delivered, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(l.Miles.StringFixed(1), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money.FormatUSD(l.Pay), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalsRow(s *entity.Settlement) core.Row {
	label := func(v string, top float64, bold bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 2, Top: top, Style: fontstyle.Bold}
		if bold {
			p.Size = 10
			p.Color = colorPrimary
		}
		return text.New(v, p)
	}
	value := func(v string, top float64, bold bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}
		if bold {
			p.Size = 10
			p.Style = fontstyle.Bold
			p.Color = colorPrimary
		}
		return text.New(v, p)
	}

	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(
			label("Gross pay:", 1, false),
			label("Deductions:", 7, false),
			label("NET PAY:", 14, true),
		),
		col.New(3).Add(
			value(money.FormatUSD(s.GrossPay), 1, false),
			value(money.FormatUSD(s.Deductions.Neg()), 7, false),
			value(money.FormatUSD(s.NetPay), 14, true),
		),
	)
}

func footerRow(s *entity.Settlement) core.Row {
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(s.SettlementNumber, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Status: "+s.Status, props.Text{Style: fontstyle.Bold, Size: 9, Top: 4, Left: 3}),
			text.New(
				"Please review this statement and report any discrepancy to your carrier's "+
					"accounting department within 7 days.",
				props.Text{Size: 7, Top: 12, Left: 3, Color: colorGray},
			),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
