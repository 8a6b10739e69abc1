// Package sheet exchanges inventory data with spreadsheets: tab separated
// text for pasting into a spreadsheet, and xlsx workbooks.
package sheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/warehouse"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Header is the header row of the movement sheet.
var Header = []string{"구분", "품목명", "거래처", "수량"}

// Label returns the column label of a direction.
func Label(d warehouse.Direction) string {
	if d == warehouse.In {
		return "입고"
	}
	return "출고"
}

// Row returns the movement sheet cells of an entry.
func Row(e warehouse.LogEntry) []any {
	return []any{Label(e.Type), e.ItemName, e.PartnerName, e.Quantity}
}

// Encoding is the character encoding of a text export.
type Encoding int

const (
	UTF8 Encoding = iota
	EUCKR
)

// ParseEncoding parses "utf-8" or "euc-kr".
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "")) {
	case "utf8", "":
		return UTF8, nil
	case "euckr", "cp949":
		return EUCKR, nil
	}
	return UTF8, fmt.Errorf("unknown encoding %q, want utf-8 or euc-kr", s)
}

// WriteTSV writes the header and one row per entry, separated by tabs.
// EUCKR suits older spreadsheet software on Korean systems; characters it
// cannot represent are replaced by
// the ASCII substitute character.
func WriteTSV(w io.Writer, entries []warehouse.LogEntry, enc Encoding) error {
	if enc == EUCKR {
		tw := transform.NewWriter(w, encoding.ReplaceUnsupported(korean.EUCKR.NewEncoder()))
		if err := writeRows(tw, entries); err != nil {
			tw.Close()
			return err
		}
		if err := tw.Close(); err != nil {
			return fmt.Errorf("cannot write sheet: %w", err)
		}
		return nil
	}
	return writeRows(w, entries)
}

func writeRows(w io.Writer, entries []warehouse.LogEntry) error {
	if err := writeLine(w, Header); err != nil {
		return err
	}
	for _, e := range entries {
		cells := Row(e)
		line := make([]string, len(cells))
		for i, c := range cells {
			line[i] = fmt.Sprint(c)
		}
		if err := writeLine(w, line); err != nil {
			return err
		}
	}
	return nil
}

var cellCleaner = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

func writeLine(w io.Writer, cells []string) error {
	for i, c := range cells {
		cells[i] = cellCleaner.Replace(c)
	}
	if _, err := io.WriteString(w, strings.Join(cells, "\t")+"\n"); err != nil {
		return fmt.Errorf("cannot write sheet: %w", err)
	}
	return nil
}
