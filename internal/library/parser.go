// Package library scans a folder of dated recordings and builds the
// in-memory listing the browser panes render from.
package library

import (
	"regexp"
	"strconv"
	"time"
)

// namePattern is the external filename contract: YYMMDD_HHMM.mp3.
var namePattern = regexp.MustCompile(`^\d{6}_\d{4}\.mp3$`)

// Recording describes one dated audio file. Immutable once constructed.
type Recording struct {
	Name     string
	Path     string
	Year     string // 4-digit
	Month    string // 2-digit
	Day      string // 2-digit
	Clock    string // "HH:MM"
	FullDate time.Time
}

// MonthKey returns the "YYYY-MM" bucket key for grouping.
func (r Recording) MonthKey() string {
	return r.Year + "-" + r.Month
}

// ParseName matches a filename against the YYMMDD_HHMM.mp3 contract.
// Two-digit years expand to 2000+YY. The date is built in local time and
// out-of-range month/day values roll over per time.Date rather than being
// rejected. A non-matching name yields ok=false, never an error.
func ParseName(name string) (Recording, bool) {
	if !namePattern.MatchString(name) {
		return Recording{}, false
	}

	yy, _ := strconv.Atoi(name[0:2])
	month, _ := strconv.Atoi(name[2:4])
	day, _ := strconv.Atoi(name[4:6])
	hour, _ := strconv.Atoi(name[7:9])
	minute, _ := strconv.Atoi(name[9:11])

	year := 2000 + yy
	full := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local)

	return Recording{
		Name:     name,
		Year:     strconv.Itoa(year),
		Month:    name[2:4],
		Day:      name[4:6],
		Clock:    name[7:9] + ":" + name[9:11],
		FullDate: full,
	}, true
}
