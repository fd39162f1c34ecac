package players

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tyler180/pfr-players/internal/pfr"
)

const DefaultOutputPath = "../data/player_info.csv"

type Config struct {
	Source      string // browser | http
	BaseURL     string
	Letters     []string
	Positions   []string
	MinYearEnd  int
	OutputPath  string
	IncludeURL  bool
	ParquetPath string
	Malformed   pfr.MalformedPolicy

	PageTimeout     time.Duration
	LetterDelay     time.Duration
	HTTPMaxAttempts int
	Headless        bool
	ChromePath      string

	OutputBucket    string
	OutputPrefix    string
	PlayersTable    string
	AthenaDB        string
	AthenaWorkgroup string
	AthenaOutput    string
	AthenaPoll      time.Duration

	Debug bool
}

// ------------------ env helpers ------------------

func envStr(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func inLambda() bool { return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" }

// ConfigFromEnv reads the run configuration from the environment.
func ConfigFromEnv() (Config, error) {
	outDefault := DefaultOutputPath
	if inLambda() {
		// only /tmp is writable on Lambda
		outDefault = "/tmp/player_info.csv"
	}

	c := Config{
		Source:      strings.ToLower(envStr("SOURCE", "browser")),
		BaseURL:     envStr("BASE_URL", pfr.BaseURL),
		Letters:     pfr.ParseLetters(envStr("LETTERS", pfr.AllLetters)),
		Positions:   pfr.ParsePositions(envStr("POSITIONS", "QB,RB,WR,TE")),
		MinYearEnd:  envInt("MIN_YEAR_END", 2015),
		OutputPath:  envStr("OUTPUT_PATH", outDefault),
		IncludeURL:  envBool("INCLUDE_URL", true),
		ParquetPath: envStr("PARQUET_PATH", ""),

		PageTimeout:     time.Duration(envInt("PAGE_TIMEOUT_SEC", 60)) * time.Second,
		LetterDelay:     time.Duration(envInt("LETTER_DELAY_MS", 0)) * time.Millisecond,
		HTTPMaxAttempts: envInt("HTTP_MAX_ATTEMPTS", 1),
		Headless:        envBool("HEADLESS", true),
		ChromePath:      envStr("CHROME_PATH", ""),

		OutputBucket:    envStr("OUTPUT_BUCKET", ""),
		OutputPrefix:    envStr("OUTPUT_PREFIX", "players"),
		PlayersTable:    envStr("PLAYERS_TABLE", ""),
		AthenaDB:        envStr("ATHENA_DB", ""),
		AthenaWorkgroup: envStr("ATHENA_WORKGROUP", "primary"),
		AthenaOutput:    envStr("ATHENA_OUTPUT", ""),
		AthenaPoll:      time.Duration(envInt("ATHENA_POLL_MS", 1000)) * time.Millisecond,

		Debug: envBool("DEBUG", false),
	}

	var err error
	if c.Malformed, err = pfr.ParseMalformedPolicy(envStr("MALFORMED", "abort")); err != nil {
		return Config{}, err
	}
	return c, c.validate()
}

// Apply overlays the non-empty event fields onto c.
func (c Config) Apply(e Event) (Config, error) {
	if s := strings.TrimSpace(e.Letters); s != "" {
		c.Letters = pfr.ParseLetters(s)
	}
	if s := strings.TrimSpace(e.Source); s != "" {
		c.Source = strings.ToLower(s)
	}
	if s := strings.TrimSpace(e.OutputPath); s != "" {
		c.OutputPath = s
	}
	if s := strings.TrimSpace(e.Malformed); s != "" {
		p, err := pfr.ParseMalformedPolicy(s)
		if err != nil {
			return Config{}, err
		}
		c.Malformed = p
	}
	if e.MinYearEnd != nil {
		c.MinYearEnd = *e.MinYearEnd
	}
	return c, c.validate()
}

func (c Config) validate() error {
	switch c.Source {
	case "browser", "http":
	default:
		return fmt.Errorf("unknown SOURCE %q (want browser|http)", c.Source)
	}
	if len(c.Letters) == 0 {
		return fmt.Errorf("no letters to scan")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("OUTPUT_PATH is empty")
	}
	if c.AthenaDB != "" && c.OutputBucket == "" {
		return fmt.Errorf("ATHENA_DB needs OUTPUT_BUCKET for the table location")
	}
	return nil
}

func (c Config) needsAWS() bool {
	return c.OutputBucket != "" || c.PlayersTable != "" || c.AthenaDB != ""
}
