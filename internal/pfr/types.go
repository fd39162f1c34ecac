package pfr

import (
	"strings"
)

const ua = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119 Safari/537.36 (+stats-research)"

const (
	BaseURL         = "https://www.pro-football-reference.com"
	ListingSelector = "#div_players > p"
	AllLetters      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// PlayerRecord is one parsed info line from a letter listing page.
type PlayerRecord struct {
	FirstName string
	LastName  string
	Position  string // e.g. "QB"
	YearBegin int
	YearEnd   int  // 0 when Active
	Active    bool // open-ended range like "2023-"
	URL       string
}

// Entry is a listing paragraph: its visible text plus the href of its first anchor.
type Entry struct {
	Text string
	Href string
}

func ParsePositions(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsPositionMatch reports whether pos is in allow. An empty allow list matches everything.
func IsPositionMatch(allow []string, pos string) bool {
	if len(allow) == 0 {
		return true
	}
	pos = strings.ToUpper(strings.TrimSpace(pos))
	for _, want := range allow {
		if pos == want {
			return true
		}
	}
	return false
}

// ParseLetters turns "a,B c" or "ABC" into upper-case single letters, keeping order and dropping dups.
func ParseLetters(s string) []string {
	seen := make(map[rune]struct{}, 26)
	out := make([]string, 0, 26)
	for _, r := range strings.ToUpper(s) {
		if r < 'A' || r > 'Z' {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, string(r))
	}
	return out
}

// ListingURL returns the per-letter index page, e.g. https://www.pro-football-reference.com/players/B/
func ListingURL(base, letter string) string {
	return strings.TrimRight(base, "/") + "/players/" + strings.ToUpper(letter) + "/"
}

// PlayerID extracts the PFR id from a profile href: /players/B/BradTo00.htm -> BradTo00
func PlayerID(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	parts := strings.Split(href, "/")
	last := parts[len(parts)-1]
	if !strings.HasSuffix(last, ".htm") {
		return ""
	}
	return strings.TrimSuffix(last, ".htm")
}

func absolutize(host, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	host = strings.TrimRight(host, "/")
	if strings.HasPrefix(href, "/") {
		return host + href
	}
	return host + "/" + href
}
