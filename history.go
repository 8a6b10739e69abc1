package warehouse

import (
	"slices"
	"strings"
	"time"

	"github.com/etnz/warehouse/date"
	"golang.org/x/text/cases"
)

// SearchLogs returns the entries whose item name, partner name or note
// contains term, ignoring case. An empty term matches every entry.
func SearchLogs(logs []LogEntry, term string) []LogEntry {
	term = strings.TrimSpace(term)
	if term == "" {
		return logs
	}
	fold := cases.Fold()
	needle := fold.String(term)
	var out []LogEntry
	for _, e := range logs {
		for _, field := range []string{e.ItemName, e.PartnerName, e.Note, e.SignalNumber} {
			if strings.Contains(fold.String(field), needle) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// FilterLogs returns the entries that happened during r, in loc.
func FilterLogs(logs []LogEntry, r date.Range, loc *time.Location) []LogEntry {
	var out []LogEntry
	for _, e := range logs {
		if r.Contains(date.Of(e.Timestamp, loc)) {
			out = append(out, e)
		}
	}
	return out
}

// DayGroup holds the entries of one day.
type DayGroup struct {
	Day     date.Date
	Entries []LogEntry // in ledger order, newest first
	In, Out int        // summed quantities
}

// GroupByDay buckets entries by day in loc, newest day first.
func GroupByDay(logs []LogEntry, loc *time.Location) []DayGroup {
	index := make(map[date.Date]int)
	var out []DayGroup
	for _, e := range logs {
		d := date.Of(e.Timestamp, loc)
		i, ok := index[d]
		if !ok {
			i = len(out)
			index[d] = i
			out = append(out, DayGroup{Day: d})
		}
		g := &out[i]
		g.Entries = append(g.Entries, e)
		if e.Type == In {
			g.In += e.Quantity
		} else {
			g.Out += e.Quantity
		}
	}
	slices.SortStableFunc(out, func(a, b DayGroup) int {
		switch {
		case a.Day.After(b.Day):
			return -1
		case a.Day.Before(b.Day):
			return 1
		}
		return 0
	})
	return out
}

// ItemMovement sums the movements of one item.
type ItemMovement struct {
	ItemID   string `json:"itemId"`
	ItemName string `json:"itemName"`
	In       int    `json:"in"`
	Out      int    `json:"out"`
}

// DailyReport lists the movements of one day, as printed for the warehouse
// log book.
type DailyReport struct {
	Day     date.Date      `json:"day"`
	Entries []LogEntry     `json:"entries"` // chronological
	Items   []ItemMovement `json:"items"`
}

// NewDailyReport builds the report of a day. Baseline registrations are not
// movements and are left out.
func NewDailyReport(logs []LogEntry, day date.Date, loc *time.Location) DailyReport {
	r := DailyReport{Day: day}
	index := make(map[string]int)
	for _, e := range logs {
		if e.IsBaseline() || date.Of(e.Timestamp, loc) != day {
			continue
		}
		r.Entries = append(r.Entries, e)
		i, ok := index[e.ItemID]
		if !ok {
			i = len(r.Items)
			index[e.ItemID] = i
			r.Items = append(r.Items, ItemMovement{ItemID: e.ItemID, ItemName: e.ItemName})
		}
		if e.Type == In {
			r.Items[i].In += e.Quantity
		} else {
			r.Items[i].Out += e.Quantity
		}
	}
	slices.SortStableFunc(r.Entries, func(a, b LogEntry) int { return a.Timestamp.Compare(b.Timestamp) })
	return r
}
