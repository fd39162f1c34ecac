package players

import "encoding/json"

// Event is the Lambda payload. Every field is optional and overrides the env config.
type Event struct {
	Letters    string `json:"letters"`      // e.g. "ABC"; default A..Z
	Source     string `json:"source"`       // browser | http
	OutputPath string `json:"output_path"`  // CSV path
	Malformed  string `json:"malformed"`    // abort | skip
	MinYearEnd *int   `json:"min_year_end"` // keep YearEnd > this
}

// Raw is used by Lambda entrypoint to avoid tight coupling to the event type at the edge.
type Raw = json.RawMessage

type Response struct {
	OK          bool     `json:"ok"`
	Letters     int      `json:"letters"`
	Scanned     int      `json:"scanned"`
	Parsed      int      `json:"parsed"`
	OpenEnded   int      `json:"open_ended"`
	Skipped     int      `json:"skipped"`
	Kept        int      `json:"kept"`
	Output      string   `json:"output"`
	Parquet     string   `json:"parquet,omitempty"`
	S3Keys      []string `json:"s3_keys,omitempty"`
	Table       string   `json:"table,omitempty"`
	AthenaTable string   `json:"athena_table,omitempty"`
	AthenaRows  int64    `json:"athena_rows,omitempty"`
}
