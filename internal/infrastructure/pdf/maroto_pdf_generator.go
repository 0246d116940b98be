// Package pdf genera las representaciones imprimibles del almacén: la hoja
// de solicitud (para firmar en bodega al retirar material) y el reporte de
// existencias con estado de stock.
package pdf

import (
	"context"
	"fmt"

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

	"github.com/agrocampo/bodega-api/internal/application/catalog"
	"github.com/agrocampo/bodega-api/internal/application/dto"
	"github.com/agrocampo/bodega-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 34, Green: 102, Blue: 51}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ catalog.PDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa catalog.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	appName string
}

// NewMarotoPDFGenerator construye el generador. appName encabeza los reportes.
func NewMarotoPDFGenerator(appName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{appName: appName}
}

func (g *MarotoPDFGenerator) newDoc(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()
	return maroto.New(cfg)
}

// GenerateRequestPDF hoja de solicitud: cabecera con consecutivo y estado,
// tabla de líneas con nombre de producto y espacio de firmas.
func (g *MarotoPDFGenerator) GenerateRequestPDF(
	_ context.Context,
	req *entity.Request,
	products map[string]*entity.Product,
) ([]byte, error) {
	m := g.newDoc("Solicitud " + req.Code)

	m.AddRows(row.New(16).Add(
		col.New(7).Add(
			text.New(g.appName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Solicitud de material", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(req.Code, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New(fmt.Sprintf("%s  ·  %s", req.Kind, req.Status), props.Text{
				Size: 9, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Fecha: "+req.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow("Código", "Producto", "Cantidad", "Lote"))
	for _, l := range req.Lines {
		code, name := "—", l.ProductID
		if p, ok := products[l.ProductID]; ok {
			code, name = p.Code, p.Name
		}
		m.AddRows(row.New(7).Add(
			col.New(2).Add(text.New(code, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(l.Quantity.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(nonEmpty(l.LotID, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
		))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(20).Add(
		col.New(6).Add(
			text.New("_____________________________", props.Text{Size: 9, Top: 10, Align: align.Center}),
			text.New("Entrega (bodega)", props.Text{Size: 8, Top: 16, Align: align.Center, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("_____________________________", props.Text{Size: 9, Top: 10, Align: align.Center}),
			text.New("Recibe (solicitante)", props.Text{Size: 8, Top: 16, Align: align.Center, Color: colorGray}),
		),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar solicitud: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateInventoryReport reporte de existencias: una fila por producto con
// físico, comprometido, disponible y estado de stock.
func (g *MarotoPDFGenerator) GenerateInventoryReport(
	_ context.Context,
	items []*dto.InventoryItemResponse,
) ([]byte, error) {
	m := g.newDoc("Reporte de inventario")

	m.AddRows(row.New(14).Add(
		col.New(12).Add(
			text.New(g.appName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte de existencias", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow("Código", "Producto", "Físico", "Disponible"))
	for _, it := range items {
		m.AddRows(row.New(7).Add(
			col.New(2).Add(text.New(it.Code, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(it.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(it.Physical.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(
				fmt.Sprintf("%s (%s)", it.Available.String(), it.Status),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte de inventario: %w", err)
	}
	return doc.GetBytes(), nil
}

func tableHeaderRow(c1, c2, c3, c4 string) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h(c1, 2, align.Left),
		h(c2, 5, align.Left),
		h(c3, 2, align.Right),
		h(c4, 3, align.Right),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
