package roster

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	parquet "github.com/parquet-go/parquet-go"
)

type parquetRow struct {
	Index     int64   `parquet:"index"`
	FirstName string  `parquet:"first_name"`
	LastName  string  `parquet:"last_name"`
	Position  string  `parquet:"position"`
	YearBegin int32   `parquet:"year_begin"`
	YearEnd   int32   `parquet:"year_end"`
	URL       *string `parquet:"url,optional"`
}

func toParquet(r Row) parquetRow {
	pr := parquetRow{
		Index:     int64(r.Index),
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Position:  r.Position,
		YearBegin: int32(r.YearBegin),
		YearEnd:   int32(r.YearEnd),
	}
	if r.URL != "" {
		u := r.URL
		pr.URL = &u
	}
	return pr
}

// WriteParquet writes rows as a single Snappy-compressed parquet file.
func WriteParquet(w io.Writer, rows []Row) error {
	pw := parquet.NewWriter(w, parquet.SchemaOf(new(parquetRow)), parquet.Compression(&parquet.Snappy))
	for _, r := range rows {
		if err := pw.Write(toParquet(r)); err != nil {
			_ = pw.Close()
			return fmt.Errorf("write parquet row %d: %w", r.Index, err)
		}
	}
	return pw.Close()
}

func WriteParquetFile(path string, rows []Row) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteParquet(f, rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
