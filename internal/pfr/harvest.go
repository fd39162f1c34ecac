package pfr

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"
)

// ListingSource yields the listing paragraphs for one letter page.
type ListingSource interface {
	Listing(ctx context.Context, letter string) ([]Entry, error)
}

type MalformedPolicy string

const (
	MalformedAbort MalformedPolicy = "abort"
	MalformedSkip  MalformedPolicy = "skip"
)

func ParseMalformedPolicy(s string) (MalformedPolicy, error) {
	switch p := MalformedPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", MalformedAbort:
		return MalformedAbort, nil
	case MalformedSkip:
		return MalformedSkip, nil
	default:
		return "", fmt.Errorf("unknown malformed policy %q (want abort|skip)", s)
	}
}

type HarvestOptions struct {
	Letters       []string // defaults to A..Z
	Malformed     MalformedPolicy
	LetterDelay   time.Duration
	ProgressEvery int // defaults to 50
}

type HarvestStats struct {
	Letters   int
	Entries   int
	Records   int
	OpenEnded int
	Skipped   int
	PerLetter map[string]int
	Duration  time.Duration
}

func osBool(k string) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(k)))
	return v == "1" || v == "true" || v == "on" || v == "yes"
}

// jitter adds ±100ms to d so letter requests don't align.
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	d += time.Duration(rand.Intn(201)-100) * time.Millisecond
	if d < 0 {
		return 0
	}
	return d
}

// progress renders ct/n with the shortest exact decimal and at least one
// fractional digit: 0 -> "0.0", 50/120 -> "0.4166666666666667".
func progress(ct, n int) string {
	s := strconv.FormatFloat(float64(ct)/float64(n), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Harvest scans the letter pages in order and returns every parsed record.
// Open-ended ranges are kept (Active=true) and logged with the raw line.
func Harvest(ctx context.Context, src ListingSource, opts HarvestOptions) ([]PlayerRecord, HarvestStats, error) {
	letters := opts.Letters
	if len(letters) == 0 {
		letters = ParseLetters(AllLetters)
	}
	every := opts.ProgressEvery
	if every <= 0 {
		every = 50
	}
	policy := opts.Malformed
	if policy == "" {
		policy = MalformedAbort
	}

	start := time.Now()
	stats := HarvestStats{PerLetter: make(map[string]int, len(letters))}
	out := make([]PlayerRecord, 0, 30000)

	for i, letter := range letters {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		if i > 0 && opts.LetterDelay > 0 {
			if err := sleepCtx(ctx, jitter(opts.LetterDelay)); err != nil {
				return nil, stats, err
			}
		}

		entries, err := src.Listing(ctx, letter)
		if err != nil {
			return nil, stats, fmt.Errorf("letter %s: %w", letter, err)
		}
		stats.Letters++
		stats.Entries += len(entries)

		kept := 0
		for ct, e := range entries {
			rec, err := ParseInfoLine(e.Text)
			if err != nil {
				if policy == MalformedAbort || !errors.Is(err, ErrMalformedLine) {
					return nil, stats, fmt.Errorf("letter %s entry %d: %w", letter, ct, err)
				}
				log.Printf("players: WARN skipping %v", err)
				stats.Skipped++
			} else {
				if rec.Active {
					log.Printf("players: open-ended range: %s", e.Text)
					stats.OpenEnded++
				}
				rec.URL = e.Href
				out = append(out, rec)
				kept++
			}
			if ct%every == 0 {
				log.Printf("%s: %s", letter, progress(ct, len(entries)))
			}
		}
		stats.PerLetter[letter] = kept
		if osBool("DEBUG") {
			log.Printf("players: %s entries=%d kept=%d", letter, len(entries), kept)
		}
	}

	stats.Records = len(out)
	stats.Duration = time.Since(start)
	return out, stats, nil
}
