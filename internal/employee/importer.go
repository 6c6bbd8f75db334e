package employee

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadImportFile parses an xlsx payload into ImportRows. The first row is
// the header; RUT/Nombre/Email columns are matched case-insensitively
// because the HR templates are not consistent about casing.
func ReadImportFile(r io.Reader) ([]ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("el archivo está vacío")
	}

	rutCol, nameCol, emailCol := -1, -1, -1
	for i, header := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(header)) {
		case "rut":
			rutCol = i
		case "nombre":
			nameCol = i
		case "email", "correo":
			emailCol = i
		}
	}
	if rutCol < 0 {
		return nil, fmt.Errorf("el archivo no tiene columna 'RUT'")
	}
	if nameCol < 0 {
		return nil, fmt.Errorf("el archivo no tiene columna 'Nombre'")
	}

	cell := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var out []ImportRow
	for i, row := range rows[1:] {
		out = append(out, ImportRow{
			Line:  i + 2, // spreadsheet line number, header is line 1
			RUT:   cell(row, rutCol),
			Name:  cell(row, nameCol),
			Email: cell(row, emailCol),
		})
	}
	return out, nil
}
