package renderer

import (
	"time"

	"github.com/etnz/warehouse"
	"github.com/etnz/warehouse/date"
)

// RecentEntries is the number of ledger entries shown on the dashboard.
const RecentEntries = 5

// clock formats timestamps in a location.
type clock struct{ loc *time.Location }

func (c clock) location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

// Time formats a timestamp to the minute.
func (c clock) Time(t time.Time) string { return t.In(c.location()).Format("2006-01-02 15:04") }

// Clock formats the time of day of a timestamp.
func (c clock) Clock(t time.Time) string { return t.In(c.location()).Format("15:04") }

// Dashboard is the overview of the inventory.
type Dashboard struct {
	clock
	On         date.Date
	Currency   string
	Stats      warehouse.Stats
	In, Out    int // number of inbound and outbound entries
	Categories []warehouse.CategoryTotal
	LowStock   []warehouse.Item
	Recent     []warehouse.LogEntry
}

// NewDashboard computes the dashboard of a state.
func NewDashboard(st warehouse.State, on date.Date, currency string, loc *time.Location) *Dashboard {
	items := st.Reconciled()
	recent := st.Logs
	if len(recent) > RecentEntries {
		recent = recent[:RecentEntries]
	}
	d := &Dashboard{
		clock:      clock{loc},
		On:         on,
		Currency:   currency,
		Stats:      warehouse.Summarize(items, currency),
		Categories: warehouse.CategoryTotals(items),
		LowStock:   warehouse.LowStock(items),
		Recent:     recent,
	}
	d.In, d.Out = warehouse.Activity(st.Logs)
	return d
}

// Inventory is the table of reconciled items.
type Inventory struct {
	clock
	Currency string
	Items    []warehouse.Item
}

// NewInventory returns the inventory table of reconciled items.
func NewInventory(items []warehouse.Item, currency string, loc *time.Location) *Inventory {
	return &Inventory{clock: clock{loc}, Currency: currency, Items: items}
}

// Price returns the unit price of an item in the inventory currency.
func (v *Inventory) Price(it warehouse.Item) warehouse.Money { return warehouse.M(it.Price, v.Currency) }

// Total returns the value of the whole table.
func (v *Inventory) Total() warehouse.Money {
	return warehouse.Summarize(v.Items, v.Currency).TotalValue
}

// Unit is an asset with the name of its holder.
type Unit struct {
	warehouse.Asset
	Holder string
}

// AssetGroup holds the units of one serialized item.
type AssetGroup struct {
	Item      warehouse.Item
	Units     []Unit
	Available int
}

// Assets lists serialized units grouped by item.
type Assets struct {
	clock
	Status warehouse.Status // empty for every status
	Groups []AssetGroup
}

// NewAssets groups the units of st with the given status. An empty itemID
// selects every serialized item.
func NewAssets(st warehouse.State, itemID string, status warehouse.Status, loc *time.Location) *Assets {
	v := &Assets{clock: clock{loc}, Status: status}
	for _, it := range st.Reconciled() {
		if itemID != "" && it.ID != itemID {
			continue
		}
		if itemID == "" && it.Mode() != warehouse.Serialized {
			continue
		}
		g := AssetGroup{Item: it}
		for _, a := range st.AssetsOf(it.ID, status) {
			u := Unit{Asset: a}
			if p, ok := st.Partner(a.PartnerID); ok {
				u.Holder = p.Name
			}
			if a.Available() {
				g.Available++
			}
			g.Units = append(g.Units, u)
		}
		v.Groups = append(v.Groups, g)
	}
	return v
}

// History is the ledger grouped by day.
type History struct {
	clock
	Term  string
	Range date.Range
	Days  []warehouse.DayGroup
}

// NewHistory groups the entries matching term during r.
func NewHistory(logs []warehouse.LogEntry, term string, r date.Range, loc *time.Location) *History {
	logs = warehouse.FilterLogs(warehouse.SearchLogs(logs, term), r, loc)
	return &History{
		clock: clock{loc},
		Term:  term,
		Range: r,
		Days:  warehouse.GroupByDay(logs, loc),
	}
}

// Daily is the movement report of one day.
type Daily struct {
	clock
	warehouse.DailyReport
}

// NewDaily builds the report of day.
func NewDaily(logs []warehouse.LogEntry, day date.Date, loc *time.Location) *Daily {
	return &Daily{clock: clock{loc}, DailyReport: warehouse.NewDailyReport(logs, day, loc)}
}
