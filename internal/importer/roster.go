// Package importer parses external rosters and published calendars
// into the shapes the configuration document stores. Parsers operate
// on plain cell grids and readers so they are testable without binary
// fixtures.
package importer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// RosterRow is one student extracted from a roster sheet.
type RosterRow struct {
	SheetRow  int // 1-based row in the source sheet, for error reporting
	DNI       string
	Name      string
	Surname   string
	GroupCode string
	Email     string
	ExpCentro string
	ExpAgora  string
}

// Roster holds the usable rows of a parsed sheet plus the per-row
// problems that excluded the rest.
type Roster struct {
	Rows      []RosterRow
	RowErrors []string
}

// columnAliases maps each logical roster field to the header spellings
// seen in university exports, after normalizeHeader. Fields detect
// independently: "no expediente en centro" backs both dni and
// exp_centro when it is the only identifier column.
var columnAliases = map[string][]string{
	"dni":        {"dni", "no exp", "no expediente", "no expediente en centro"},
	"apellidos":  {"apellidos"},
	"nombre":     {"nombre"},
	"email":      {"email", "e-mail", "correo"},
	"grupo":      {"grupo matricula", "grupo", "grupo de matricula"},
	"exp_centro": {"no expediente en centro", "exp centro", "expediente centro", "matricula", "num expediente centro"},
	"exp_agora":  {"no expediente en agora", "exp agora", "expediente agora", "num expediente agora"},
}

var essentialColumns = []string{"dni", "apellidos", "nombre", "grupo"}

// ParseRoster scans a cell grid for the header row and extracts one
// RosterRow per usable data row underneath it. Rows missing essential
// values are reported in RowErrors with their 1-based sheet row.
func ParseRoster(rows [][]string) (*Roster, error) {
	headerAt, columns, err := findHeader(rows)
	if err != nil {
		return nil, err
	}

	roster := &Roster{}
	for i := headerAt + 1; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}
		sheetRow := i + 1

		dni := strings.ToUpper(strings.TrimSpace(cellAt(row, columns["dni"])))
		if dni == "" {
			roster.RowErrors = append(roster.RowErrors, fmt.Sprintf("row %d: empty or invalid DNI", sheetRow))
			continue
		}

		surname := NormalizeName(cellAt(row, columns["apellidos"]))
		name := NormalizeName(cellAt(row, columns["nombre"]))
		if surname == "" || name == "" {
			roster.RowErrors = append(roster.RowErrors, fmt.Sprintf("row %d: empty name or surname", sheetRow))
			continue
		}

		groupCell := strings.TrimSpace(cellAt(row, columns["grupo"]))
		groupCode := ExtractGroupCode(groupCell)
		if groupCode == "" {
			roster.RowErrors = append(roster.RowErrors, fmt.Sprintf("row %d: no group code in %q", sheetRow, groupCell))
			continue
		}

		roster.Rows = append(roster.Rows, RosterRow{
			SheetRow:  sheetRow,
			DNI:       dni,
			Name:      name,
			Surname:   surname,
			GroupCode: groupCode,
			Email:     optionalCell(row, columns, "email", strings.ToLower),
			ExpCentro: optionalCell(row, columns, "exp_centro", stripFloatSuffix),
			ExpAgora:  optionalCell(row, columns, "exp_agora", stripFloatSuffix),
		})
	}
	return roster, nil
}

// findHeader locates the first row carrying every essential column and
// returns its index plus the logical-field -> column-index mapping.
func findHeader(rows [][]string) (int, map[string]int, error) {
	best := map[string]int{}
	bestRow := -1
	for i, row := range rows {
		columns := detectColumns(row)
		if hasEssentials(columns) {
			return i, columns, nil
		}
		if len(columns) > len(best) {
			best, bestRow = columns, i
		}
	}

	var missing []string
	for _, field := range essentialColumns {
		if _, ok := best[field]; !ok {
			missing = append(missing, field)
		}
	}
	available := "none"
	if bestRow >= 0 {
		var cells []string
		for _, c := range rows[bestRow] {
			if n := normalizeHeader(c); n != "" {
				cells = append(cells, n)
			}
		}
		if len(cells) > 0 {
			available = strings.Join(cells, ", ")
		}
	}
	return 0, nil, fmt.Errorf("roster header not found: missing columns %s (best row offers: %s)",
		strings.Join(missing, ", "), available)
}

func detectColumns(row []string) map[string]int {
	normalized := make([]string, len(row))
	for i, cell := range row {
		normalized[i] = normalizeHeader(cell)
	}
	columns := map[string]int{}
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			if idx := indexOf(normalized, alias); idx >= 0 {
				columns[field] = idx
				break
			}
		}
	}
	return columns
}

func indexOf(cells []string, want string) int {
	for i, c := range cells {
		if c == want {
			return i
		}
	}
	return -1
}

func hasEssentials(columns map[string]int) bool {
	for _, field := range essentialColumns {
		if _, ok := columns[field]; !ok {
			return false
		}
	}
	return true
}

// groupCodePattern matches a letter run followed by digits, the shape
// of every group code (A302, EE502, B156).
var groupCodePattern = regexp.MustCompile(`([A-Z]+\d+)`)

var parenthesized = regexp.MustCompile(`\(([^)]+)\)`)

// ExtractGroupCode pulls the group code out of an enrollment cell.
// "Grupo de Matricula (A302)" yields A302; a bare "a302" is uppercased;
// cells with no recognizable code yield "".
func ExtractGroupCode(cell string) string {
	if m := parenthesized.FindStringSubmatch(cell); m != nil {
		return strings.ToUpper(strings.TrimSpace(m[1]))
	}
	if m := groupCodePattern.FindStringSubmatch(strings.ToUpper(cell)); m != nil {
		return m[1]
	}
	return ""
}

// normalizeHeader canonicalizes a header cell: lowercase, ordinal signs
// unified to "no", accents stripped, runs of whitespace collapsed.
func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "nº", "no")
	s = strings.ReplaceAll(s, "n°", "no")
	s = stripAccents(s)
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeName uppercases a person name and strips accents, so MARÍA
// and MARIA collide instead of duplicating a student.
func NormalizeName(s string) string {
	return strings.ToUpper(stripAccents(strings.TrimSpace(s)))
}

func stripAccents(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func optionalCell(row []string, columns map[string]int, field string, clean func(string) string) string {
	idx, ok := columns[field]
	if !ok {
		return ""
	}
	return clean(strings.TrimSpace(cellAt(row, idx)))
}

// stripFloatSuffix drops the ".0" spreadsheets append to numeric
// expediente cells.
func stripFloatSuffix(s string) string {
	return strings.TrimSuffix(s, ".0")
}
