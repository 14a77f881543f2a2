package costsheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnreadableWorkbook is returned when the input cannot be opened as a
// spreadsheet at all. Blank or malformed cells never produce an error.
var ErrUnreadableWorkbook = errors.New("unreadable workbook")

// Grid is a read-only, possibly ragged, 2D view of one worksheet.
// Indices are 0-based.
type Grid struct {
	cells [][]string
	cols  int
}

// NewGrid wraps already-loaded rows. The slice is not copied.
func NewGrid(rows [][]string) *Grid {
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	return &Grid{cells: rows, cols: cols}
}

// LoadGrid reads the first worksheet of a workbook. The format is chosen
// from the content, not the file name: an OLE2 signature selects the legacy
// .xls reader, anything else goes to excelize. xlsx cells are read raw
// (unformatted) so numbers keep their full precision.
func LoadGrid(r io.Reader) (*Grid, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	if isLegacyWorkbook(content) {
		return loadLegacyGrid(bytes.NewReader(content))
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableWorkbook)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", ErrUnreadableWorkbook, sheets[0], err)
	}
	return NewGrid(rows), nil
}

// Rows returns the number of rows in the grid.
func (g *Grid) Rows() int { return len(g.cells) }

// Cols returns the width of the widest row.
func (g *Grid) Cols() int { return g.cols }

func (g *Grid) raw(row, col int) (string, bool) {
	if row < 0 || col < 0 || row >= len(g.cells) {
		return "", false
	}
	r := g.cells[row]
	if col >= len(r) {
		return "", false
	}
	v := strings.TrimSpace(r[col])
	return v, v != ""
}

// GetString returns the trimmed cell text, or "" when absent.
func (g *Grid) GetString(row, col int) string {
	return g.GetStringOr(row, col, "")
}

// GetStringOr returns the trimmed cell text, or def when the cell is out of
// bounds or blank.
func (g *Grid) GetStringOr(row, col int, def string) string {
	if v, ok := g.raw(row, col); ok {
		return v
	}
	return def
}

// GetNumber returns the cell parsed as a float, or 0 when absent.
func (g *Grid) GetNumber(row, col int) float64 {
	return g.GetNumberOr(row, col, 0)
}

// GetNumberOr returns the cell parsed as a float, or def when the cell is
// out of bounds, blank, not numeric, NaN or infinite.
func (g *Grid) GetNumberOr(row, col int, def float64) float64 {
	v, ok := g.raw(row, col)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}
