package pfr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedLine = errors.New("malformed info line")

// LineError carries the raw info line that failed to parse.
type LineError struct {
	Line   string
	Reason string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s: %s: %q", ErrMalformedLine, e.Reason, e.Line)
}

func (e *LineError) Unwrap() error { return ErrMalformedLine }

// TrailingFieldsPolicy splits an info line on single spaces and reads it from the end:
//
//	fields[0]     first name
//	fields[n-3]   last name
//	fields[n-2]   "(POS)"
//	fields[n-1]   "YYYY-YYYY" or open-ended "YYYY-"
//
// Tokens between the first name and the last name are dropped, so
// "Jerry St. Brown (WR) 2015-2022" yields Jerry / Brown.
type TrailingFieldsPolicy struct{}

func (TrailingFieldsPolicy) Parse(line string) (PlayerRecord, error) {
	line = strings.TrimSpace(line)
	fields := strings.Split(line, " ")
	n := len(fields)
	if n < 3 {
		return PlayerRecord{}, &LineError{Line: line, Reason: fmt.Sprintf("want at least 3 fields, got %d", n)}
	}

	posField := fields[n-2]
	if len(posField) < 3 || !strings.HasPrefix(posField, "(") || !strings.HasSuffix(posField, ")") {
		return PlayerRecord{}, &LineError{Line: line, Reason: "position not in parentheses"}
	}

	rec := PlayerRecord{
		FirstName: fields[0],
		LastName:  fields[n-3],
		Position:  posField[1 : len(posField)-1],
	}

	years := strings.Split(fields[n-1], "-")
	begin, err := strconv.Atoi(years[0])
	if err != nil {
		return PlayerRecord{}, &LineError{Line: line, Reason: "bad begin year"}
	}
	rec.YearBegin = begin

	if len(years) < 2 || years[1] == "" {
		rec.Active = true
		return rec, nil
	}
	end, err := strconv.Atoi(years[1])
	if err != nil {
		return PlayerRecord{}, &LineError{Line: line, Reason: "bad end year"}
	}
	rec.YearEnd = end
	return rec, nil
}

// ParseInfoLine parses one listing line with TrailingFieldsPolicy.
func ParseInfoLine(line string) (PlayerRecord, error) {
	return TrailingFieldsPolicy{}.Parse(line)
}
