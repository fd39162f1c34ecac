package roster

import (
	"github.com/tyler180/pfr-players/internal/pfr"
)

// Table is the ordered set of records gathered across the letter scan.
type Table struct {
	records []pfr.PlayerRecord
}

// Row is a record plus its position in the exported table.
type Row struct {
	Index int
	pfr.PlayerRecord
}

func NewTable(records []pfr.PlayerRecord) Table {
	return Table{records: records}
}

func (t Table) Len() int { return len(t.records) }

func (t Table) Records() []pfr.PlayerRecord {
	out := make([]pfr.PlayerRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Filter keeps records whose position is in positions and whose career ended strictly
// after minYearEnd. Open-ended records have no end year and never pass.
func (t Table) Filter(positions []string, minYearEnd int) Table {
	out := make([]pfr.PlayerRecord, 0, len(t.records)/4)
	for _, r := range t.records {
		if !pfr.IsPositionMatch(positions, r.Position) {
			continue
		}
		if r.Active {
			continue
		}
		if r.YearEnd <= minYearEnd {
			continue
		}
		out = append(out, r)
	}
	return Table{records: out}
}

// Rows returns the table with a fresh 0..N-1 index.
func (t Table) Rows() []Row {
	out := make([]Row, len(t.records))
	for i, r := range t.records {
		out[i] = Row{Index: i, PlayerRecord: r}
	}
	return out
}
