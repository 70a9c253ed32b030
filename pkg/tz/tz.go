// Package tz resolves the time zone used to display run times.
package tz

import (
	"fmt"
	"strings"
	"time"

	_ "time/tzdata" // zone database for hosts without /usr/share/zoneinfo
)

// Load resolves an IANA zone name such as "Europe/Stockholm".
// An empty name or "UTC" gives time.UTC.
func Load(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "UTC") {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %s: %w", name, err)
	}
	return loc, nil
}

// Stamp formats t in loc for run listings.
func Stamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02 15:04")
}
