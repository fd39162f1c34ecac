package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

var csvHeader = []string{"index", "FirstName", "LastName", "Position", "YearBegin", "YearEnd"}

func Header(includeURL bool) []string {
	h := append([]string(nil), csvHeader...)
	if includeURL {
		h = append(h, "URL")
	}
	return h
}

// WriteCSV writes a header row and one line per row, comma separated.
func WriteCSV(w io.Writer, rows []Row, includeURL bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(includeURL)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Index),
			r.FirstName,
			r.LastName,
			r.Position,
			strconv.Itoa(r.YearBegin),
			strconv.Itoa(r.YearEnd),
		}
		if includeURL {
			rec = append(rec, r.URL)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", r.Index, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes rows to path, creating the parent directory if needed.
func WriteCSVFile(path string, rows []Row, includeURL bool) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, rows, includeURL); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
