package pfr

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseInfoLine(t *testing.T) {
	cases := []struct {
		name string
		line string
		want PlayerRecord
	}{
		{
			name: "simple",
			line: "John Smith (QB) 2010-2020",
			want: PlayerRecord{FirstName: "John", LastName: "Smith", Position: "QB", YearBegin: 2010, YearEnd: 2020},
		},
		{
			name: "middle token dropped",
			line: "Jerry St. Brown (WR) 2015-2022",
			want: PlayerRecord{FirstName: "Jerry", LastName: "Brown", Position: "WR", YearBegin: 2015, YearEnd: 2022},
		},
		{
			name: "suffix becomes last name",
			line: "Odell Beckham Jr. (WR) 2014-2023",
			want: PlayerRecord{FirstName: "Odell", LastName: "Jr.", Position: "WR", YearBegin: 2014, YearEnd: 2023},
		},
		{
			name: "open ended",
			line: "Pat Freshman (RB) 2023-",
			want: PlayerRecord{FirstName: "Pat", LastName: "Freshman", Position: "RB", YearBegin: 2023, Active: true},
		},
		{
			name: "single token name",
			line: "Mononym (TE) 1999-2001",
			want: PlayerRecord{FirstName: "Mononym", LastName: "Mononym", Position: "TE", YearBegin: 1999, YearEnd: 2001},
		},
		{
			name: "surrounding whitespace",
			line: "  Tom Brady (QB) 2000-2022\n",
			want: PlayerRecord{FirstName: "Tom", LastName: "Brady", Position: "QB", YearBegin: 2000, YearEnd: 2022},
		},
		{
			name: "compound position kept raw",
			line: "Some Guy (WR-TE) 1990-1994",
			want: PlayerRecord{FirstName: "Some", LastName: "Guy", Position: "WR-TE", YearBegin: 1990, YearEnd: 1994},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseInfoLine(tc.line)
			if err != nil {
				t.Fatalf("ParseInfoLine(%q) err: %v", tc.line, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseInfoLine(%q) mismatch (-want +got):\n%s", tc.line, diff)
			}
		})
	}
}

func TestParseInfoLine_Malformed(t *testing.T) {
	lines := []string{
		"",
		"(QB) 2010-2020",
		"John Smith QB 2010-2020",
		"John Smith (QB) abcd-2020",
		"John Smith (QB) 2010-20x0",
		"John Smith (QB)",
	}
	for _, line := range lines {
		_, err := ParseInfoLine(line)
		if err == nil {
			t.Errorf("ParseInfoLine(%q): expected error", line)
			continue
		}
		if !errors.Is(err, ErrMalformedLine) {
			t.Errorf("ParseInfoLine(%q): err %v does not wrap ErrMalformedLine", line, err)
		}
		var le *LineError
		if !errors.As(err, &le) {
			t.Errorf("ParseInfoLine(%q): err is not *LineError", line)
		}
	}
}

func TestPlayerID(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/players/B/BradTo00.htm", "BradTo00"},
		{"https://www.pro-football-reference.com/players/S/SmitJo01.htm", "SmitJo01"},
		{"/players/B/BradTo00.htm?ref=x", "BradTo00"},
		{"/players/B/", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := PlayerID(tc.in); got != tc.want {
			t.Errorf("PlayerID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestListingURLAndLetters(t *testing.T) {
	if got := ListingURL(BaseURL+"/", "b"); got != "https://www.pro-football-reference.com/players/B/" {
		t.Fatalf("ListingURL = %q", got)
	}
	got := ParseLetters("a, c b,A 9")
	if diff := cmp.Diff([]string{"A", "C", "B"}, got); diff != "" {
		t.Fatalf("ParseLetters mismatch (-want +got):\n%s", diff)
	}
	if n := len(ParseLetters(AllLetters)); n != 26 {
		t.Fatalf("ParseLetters(AllLetters) len = %d", n)
	}
}

func TestIsPositionMatch(t *testing.T) {
	allow := ParsePositions("QB, rb,WR,TE")
	if !IsPositionMatch(allow, "qb") {
		t.Error("qb should match")
	}
	if IsPositionMatch(allow, "K") {
		t.Error("K should NOT match")
	}
	if !IsPositionMatch(nil, "K") {
		t.Error("empty allow list should match anything")
	}
}
