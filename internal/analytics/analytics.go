// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package analytics aggregates raw visitor logs into the figures shown on
// the admin analytics page.
package analytics

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/mileusna/useragent"

	"synctech/internal/models"
)

const (
	// TrendDays is the length of the daily visitor series.
	TrendDays = 7
	// TopPages is how many pages the top-pages table lists.
	TopPages = 5
	// TopAgents is how many rows each browser/OS breakdown lists.
	TopAgents = 5
)

// Count is a labelled tally.
type Count struct {
	Label string
	Value int
}

// Day is one point of the daily visitor series.
type Day struct {
	Date     time.Time
	Visitors int
}

// Summary holds every figure of the analytics page.
type Summary struct {
	TotalVisitors int
	UniquePages   int
	AvgDaily      int
	Languages     int
	Daily         []Day
	TopPages      []Count
	Browsers      []Count
	OS            []Count
	Devices       []Count
}

// ParsedUA is the part of a user agent the breakdowns use.
type ParsedUA struct {
	Browser    string
	OS         string
	DeviceType string
}

// ParseUserAgent extracts browser, OS and device type from a user agent string.
func ParseUserAgent(uaString string) ParsedUA {
	ua := useragent.Parse(uaString)

	result := ParsedUA{
		Browser: ua.Name,
		OS:      ua.OS,
	}
	if result.Browser == "" {
		result.Browser = "Unknown"
	}
	if result.OS == "" {
		result.OS = "Unknown"
	}

	switch {
	case ua.Bot:
		result.DeviceType = "bot"
	case ua.Tablet:
		result.DeviceType = "tablet"
	case ua.Mobile:
		result.DeviceType = "mobile"
	default:
		result.DeviceType = "desktop"
	}
	return result
}

// Summarize aggregates logs. now anchors the daily series, which covers
// the TrendDays calendar days ending on now's date in now's location.
func Summarize(logs []models.VisitorLog, now time.Time) Summary {
	s := Summary{
		TotalVisitors: len(logs),
		AvgDaily:      int(math.Round(float64(len(logs)) / TrendDays)),
	}

	pages := make(map[string]int)
	languages := make(map[string]struct{})
	browsers := make(map[string]int)
	systems := make(map[string]int)
	devices := make(map[string]int)

	loc := now.Location()
	today := startOfDay(now, loc)
	first := today.AddDate(0, 0, -(TrendDays - 1))
	s.Daily = make([]Day, TrendDays)
	for i := range s.Daily {
		s.Daily[i].Date = first.AddDate(0, 0, i)
	}

	for _, l := range logs {
		page := l.Page
		if page == "" || page == "/" {
			page = "Home"
		}
		pages[page]++
		languages[l.Language] = struct{}{}

		ua := ParseUserAgent(l.UserAgent)
		browsers[ua.Browser]++
		systems[ua.OS]++
		devices[ua.DeviceType]++

		day := startOfDay(l.Timestamp.In(loc), loc)
		if !day.Before(first) && !day.After(today) {
			idx := int(day.Sub(first).Hours()+12) / 24
			if idx >= 0 && idx < TrendDays {
				s.Daily[idx].Visitors++
			}
		}
	}

	s.UniquePages = len(pages)
	s.Languages = len(languages)
	s.TopPages = top(pages, TopPages)
	s.Browsers = top(browsers, TopAgents)
	s.OS = top(systems, TopAgents)
	s.Devices = top(devices, 0)
	return s
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// top sorts counts by value descending, then label, and keeps the first
// limit entries. limit <= 0 keeps all.
func top(counts map[string]int, limit int) []Count {
	out := make([]Count, 0, len(counts))
	for label, v := range counts {
		out = append(out, Count{Label: label, Value: v})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Max returns the largest value in counts, for scaling bar widths.
func Max(counts []Count) int {
	m := 0
	for _, c := range counts {
		m = max(m, c.Value)
	}
	return m
}

// MaxDaily returns the busiest day's visitor count.
func MaxDaily(days []Day) int {
	m := 0
	for _, d := range days {
		m = max(m, d.Visitors)
	}
	return m
}
