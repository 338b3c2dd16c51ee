package console

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/omnia-aid/omnia/internal/model"
)

var csvHeader = []string{"Référence", "Chef de famille", "Téléphone", "Adresse", "Membres", "Priorité", "Statut"}

// WriteFamiliesCSV writes the export of families: a bare header line, then
// one line per family with every field double-quoted. Lines are joined by
// "\n" with no trailing newline.
func WriteFamiliesCSV(w io.Writer, families []model.Family) error {
	lines := make([]string, 0, len(families)+1)
	lines = append(lines, strings.Join(csvHeader, ","))
	for i := range families {
		f := &families[i]
		status := StatusInactive
		if f.CreatedAt != nil {
			status = StatusActive
		}
		row := []string{
			f.Reference,
			f.HeadOfFamily,
			f.Phone,
			f.Address,
			strconv.Itoa(f.FamilySize),
			PriorityDisplay(f.PriorityLevel).Label,
			status,
		}
		for j, cell := range row {
			row[j] = quote(cell)
		}
		lines = append(lines, strings.Join(row, ","))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportFilename names the download after the UTC calendar date.
func ExportFilename(now time.Time) string {
	return "familles_" + now.UTC().Format("2006-01-02") + ".csv"
}
