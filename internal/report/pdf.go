// Package report renders printable documents for the console.
package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

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

	"github.com/omnia-aid/omnia/internal/console"
	"github.com/omnia-aid/omnia/internal/model"
)

var (
	colorPrimary = &props.Color{Red: 37, Green: 99, Blue: 235}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// FamilySheet renders the printable family sheet as an A4 PDF.
func FamilySheet(f *model.Family, now time.Time) ([]byte, error) {
	if f == nil {
		return nil, errors.New("family sheet: no family")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Fiche Famille: "+f.HeadOfFamily, true).
		WithAuthor("OMNIA", true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(f, now))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(section("CONTACT"))
	m.AddRows(field("Téléphone", f.Phone))
	m.AddRows(field("Adresse", f.Address))
	m.AddRows(field("Localisation", console.LocationTooltip(f)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(section("FOYER"))
	m.AddRows(field("Membres", strconv.Itoa(f.FamilySize)))
	m.AddRows(field("Priorité", console.PriorityDisplay(f.PriorityLevel).Label))
	m.AddRows(field("Statut", console.FamilyStatus(f, now).Text))
	m.AddRows(field("Aides fréquentes", aidTypeNames(f.FrequentAidTypes)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(section("BESOINS"))
	m.AddRows(paragraph(f.NeedsDescription))
	m.AddRows(section("NOTES"))
	m.AddRows(paragraph(f.Notes))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(f))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate family sheet: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(f *model.Family, now time.Time) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(f.HeadOfFamily, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New("Référence: "+f.Reference, props.Text{Size: 9, Top: 10, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("FICHE FAMILLE", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New("Imprimée le "+console.FormatDateShort(&now), props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
		),
	)
}

func section(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func field(label, value string) core.Row {
	return row.New(6).Add(
		col.New(3).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1})),
		col.New(9).Add(text.New(orDash(value), props.Text{Size: 9, Top: 1})),
	)
}

// paragraph sizes the row to the text; maroto wraps long lines inside it.
func paragraph(s string) core.Row {
	height := 6.0 + 4.0*float64(len([]rune(s))/110)
	return row.New(height).Add(col.New(12).Add(
		text.New(orDash(s), props.Text{Size: 9, Top: 1}),
	))
}

func footerRow(f *model.Family) core.Row {
	created := "Créée le " + console.FormatDate(f.CreatedAt)
	updated := "Mise à jour le " + console.FormatDate(f.UpdatedAt)
	left := col.New(9).Add(
		text.New(created, props.Text{Size: 8, Color: colorGray, Top: 1}),
		text.New(updated, props.Text{Size: 8, Color: colorGray, Top: 6}),
	)
	if url := console.MapsURL(f); url != "" {
		return row.New(30).Add(left, col.New(3).Add(code.NewQr(url, props.Rect{Percent: 95, Center: true})))
	}
	return row.New(12).Add(left, col.New(3))
}

func aidTypeNames(types []model.AidType) string {
	names := make([]string, 0, len(types))
	for _, a := range types {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
