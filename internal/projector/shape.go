package projector

import (
	"slices"
	"time"

	"github.com/sjperalta/consulta-api/internal/format"
	"github.com/sjperalta/consulta-api/internal/models"
)

// Shape is one of the display shapes a payload can take:
// DailyRange, OperationOnly, SingleDate or GeneralStats.
type Shape interface {
	Name() string
	isShape()
}

// Stats are the base aggregate figures shared by the summary shapes
type Stats struct {
	Sum   *float64
	Mean  *float64
	Min   *float64
	Max   *float64
	Count *int
}

// Operation is a requested secondary operation that produced a value
type Operation struct {
	Explanation string
	Result      float64
}

// DailyEntry is one day of a range breakdown
type DailyEntry struct {
	Key     string
	Date    time.Time
	Valid   bool
	Total   *float64
	Entries *int
}

// DailyRange is a per-day table over a date range, closed by a TOTAL row
type DailyRange struct {
	Days      []DailyEntry
	Sum       *float64
	Count     *int
	Operation *Operation
}

// OperationOnly shows the base total next to an operation result
type OperationOnly struct {
	Sum       *float64
	Operation Operation
}

// SingleDate summarises one day
type SingleDate struct {
	Date   string
	Family string
	Stats  Stats
}

// GeneralStats is the fallback summary over a period
type GeneralStats struct {
	Start  string
	End    string
	Family string
	Stats  Stats
}

func (DailyRange) Name() string    { return "daily_range" }
func (OperationOnly) Name() string { return "operation_only" }
func (SingleDate) Name() string    { return "single_date" }
func (GeneralStats) Name() string  { return "general_stats" }

func (DailyRange) isShape()    {}
func (OperationOnly) isShape() {}
func (SingleDate) isShape()    {}
func (GeneralStats) isShape()  {}

// Classify picks the display shape of a payload. The first matching rule wins:
// daily breakdown over a range, then an operation result, then a single date,
// then general statistics. It returns nil when the payload has no computed result.
func Classify(p *models.AnalyticsPayload) Shape {
	if p == nil || p.Computed == nil {
		return nil
	}
	c := p.Computed
	op := requestedOperation(c)
	debug := p.Debug
	if debug == nil {
		debug = &models.Debug{}
	}

	switch {
	case len(c.DailyBreakdown) > 0 && c.DateType == models.DateTypeRange:
		return DailyRange{
			Days:      sortedDays(c.DailyBreakdown),
			Sum:       c.Sum,
			Count:     c.Count,
			Operation: op,
		}
	case op != nil:
		return OperationOnly{Sum: c.Sum, Operation: *op}
	case c.DateType == models.DateTypeSingle:
		return SingleDate{
			Date:   debug.ParsedStart,
			Family: debug.DetectedFamily,
			Stats:  statsOf(c),
		}
	default:
		return GeneralStats{
			Start:  debug.ParsedStart,
			End:    debug.ParsedEnd,
			Family: debug.DetectedFamily,
			Stats:  statsOf(c),
		}
	}
}

func requestedOperation(c *models.Computed) *Operation {
	if c.OperationRequested == nil || c.OperationRequested.Op == models.OperationNone || c.OperationResult == nil {
		return nil
	}
	return &Operation{Explanation: c.OperationExplanation, Result: *c.OperationResult}
}

func statsOf(c *models.Computed) Stats {
	return Stats{Sum: c.Sum, Mean: c.Mean, Min: c.Min, Max: c.Max, Count: c.Count}
}

// sortedDays orders the breakdown by calendar date. Ties keep document order and
// keys that are not dates go last, also in document order.
func sortedDays(breakdown []models.DailyStat) []DailyEntry {
	days := make([]DailyEntry, 0, len(breakdown))
	for _, stat := range breakdown {
		date, ok := format.ParseDate(stat.Key)
		days = append(days, DailyEntry{
			Key:     stat.Key,
			Date:    date,
			Valid:   ok,
			Total:   stat.Total,
			Entries: stat.Entries,
		})
	}

	slices.SortStableFunc(days, func(a, b DailyEntry) int {
		switch {
		case a.Valid && b.Valid:
			return a.Date.Compare(b.Date)
		case a.Valid:
			return -1
		case b.Valid:
			return 1
		}
		return 0
	})
	return days
}
