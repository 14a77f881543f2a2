package costsheet

import (
	"bytes"
	"fmt"
	"io"

	"github.com/extrame/xls"
)

// oleSignature starts every BIFF (.xls) workbook, which is stored in an OLE2
// compound file rather than a zip package.
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

func isLegacyWorkbook(content []byte) bool {
	return bytes.HasPrefix(content, oleSignature)
}

// loadLegacyGrid reads the first worksheet of a BIFF workbook. The decoder
// panics on some corrupt inputs, which is reported as ErrUnreadableWorkbook.
func loadLegacyGrid(r io.ReadSeeker) (g *Grid, err error) {
	defer func() {
		if p := recover(); p != nil {
			g, err = nil, fmt.Errorf("%w: decoding xls: %v", ErrUnreadableWorkbook, p)
		}
	}()

	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableWorkbook)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("%w: first sheet unreadable", ErrUnreadableWorkbook)
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}
	return NewGrid(trimTrailingEmpty(rows)), nil
}

// trimTrailingEmpty drops empty rows at the end so Rows() matches what
// excelize reports for the same sheet.
func trimTrailingEmpty(rows [][]string) [][]string {
	for len(rows) > 0 {
		last := rows[len(rows)-1]
		empty := true
		for _, v := range last {
			if v != "" {
				empty = false
				break
			}
		}
		if !empty {
			break
		}
		rows = rows[:len(rows)-1]
	}
	return rows
}
