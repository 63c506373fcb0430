package event

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseError indicates an event display name that does not follow the
// expected grammar.
type ParseError struct {
	Name   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error while parsing event name '%s': %s", e.Name, e.Reason)
}

// parseName extracts the event type, unit number, and group id from a
// display name.
//
// Only the portion of the name before the first hyphen is considered (the
// whole name when there is none), case-insensitively. Exactly one type
// keyword must appear in it. The first run of digits is the unit number; a
// second run is an error. The single non-blank character immediately after
// the digit run, if any, is the group id. Only projects may omit the group
// id.
func parseName(name string) (Type, int, string, error) {
	short := strings.ToLower(name)
	if i := strings.Index(name, "-"); i >= 0 {
		short = strings.ToLower(name[:i])
	}

	typ, err := parseType(short)
	if err != nil {
		return 0, 0, "", &ParseError{Name: name, Reason: err.Error()}
	}
	unit, group, err := parseUnitAndGroup(short)
	if err != nil {
		return 0, 0, "", &ParseError{Name: name, Reason: err.Error()}
	}
	if group == "" && typ != Project {
		return 0, 0, "", &ParseError{Name: name, Reason: "missing a group id"}
	}
	return typ, unit, group, nil
}

// parseType matches the type keywords against the lowercased short name.
// More than one distinct keyword is ambiguous.
func parseType(short string) (Type, error) {
	var typ Type
	set := func(t Type) error {
		if typ != 0 && typ != t {
			return fmt.Errorf("cannot distinguish event type of '%s'", short)
		}
		typ = t
		return nil
	}
	if strings.Contains(short, "lecture") {
		if err := set(Lecture); err != nil {
			return 0, err
		}
	}
	if strings.Contains(short, "lab") {
		if err := set(Lab); err != nil {
			return 0, err
		}
	}
	if strings.Contains(short, "homework") || strings.Contains(short, "hw") {
		if err := set(Homework); err != nil {
			return 0, err
		}
	}
	if strings.Contains(short, "project") {
		if err := set(Project); err != nil {
			return 0, err
		}
	}
	if typ == 0 {
		return 0, fmt.Errorf("cannot distinguish event type of '%s'", short)
	}
	return typ, nil
}

// parseUnitAndGroup scans for the single digit run holding the unit number
// and the optional group character right after it.
func parseUnitAndGroup(short string) (int, string, error) {
	numberStart := -1
	numberEnd := -1
	for i, c := range short {
		isDigit := c >= '0' && c <= '9'
		switch {
		case numberStart == -1 && isDigit:
			numberStart = i
		case numberStart > -1 && numberEnd == -1 && !isDigit:
			numberEnd = i
		case numberEnd > -1 && isDigit:
			return 0, "", fmt.Errorf("cannot distinguish event number of '%s'", short)
		}
	}
	if numberStart == -1 {
		return 0, "", fmt.Errorf("cannot distinguish event number of '%s'", short)
	}
	if numberEnd == -1 {
		// Digits run to the end of the name: unit number with no group id.
		unit, err := strconv.Atoi(short[numberStart:])
		if err != nil {
			return 0, "", fmt.Errorf("cannot distinguish event number of '%s'", short)
		}
		return unit, "", nil
	}
	unit, err := strconv.Atoi(short[numberStart:numberEnd])
	if err != nil {
		return 0, "", fmt.Errorf("cannot distinguish event number of '%s'", short)
	}
	r, _ := utf8.DecodeRuneInString(short[numberEnd:])
	group := string(r)
	if strings.TrimSpace(group) == "" {
		group = ""
	}
	return unit, group, nil
}
