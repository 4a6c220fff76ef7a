package calendar

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Event is a named date to be placed on the grid.
type Event struct {
	Title string `json:"title"`
	Date  Date   `json:"date"`
}

// PlacedEvent is an Event together with its grid coordinate.
type PlacedEvent struct {
	Event
	Coordinate Coordinate `json:"coordinate"`
}

// CellState describes where a grid cell sits relative to today.
type CellState string

const (
	CellPast    CellState = "past"
	CellCurrent CellState = "current"
	CellFuture  CellState = "future"
)

// Cell is a single week on the grid.
type Cell struct {
	Week   int           `json:"week"`
	State  CellState     `json:"state"`
	Events []PlacedEvent `json:"events,omitempty"`
}

// Row is a single year of life on the grid.
type Row struct {
	Year  int       `json:"year"`
	State CellState `json:"state"`
	Cells []Cell    `json:"cells"`
}

// Grid is the life calendar of one person as seen on one day.
type Grid struct {
	BirthDate   Date `json:"birth_date"`
	Today       Date `json:"today"`
	CurrentYear int  `json:"current_year"`
	CurrentWeek int  `json:"current_week"`

	YearsPassed         []int `json:"years_passed"`
	FutureYears         []int `json:"future_years"`
	WeeksPassedThisYear []int `json:"weeks_passed_this_year"`
	WeeksLeftThisYear   []int `json:"weeks_left_this_year"`

	Events []PlacedEvent `json:"events"`
}

// NewGrid lays out the grid for birth as of today and places events on it.
// Events that fall outside the grid are kept in Events but never appear
// in Rows.
func NewGrid(birth, today Date, events []Event) *Grid {
	g := &Grid{
		BirthDate:   birth,
		Today:       today,
		CurrentYear: CurrentYearOfLife(birth, today),
		CurrentWeek: CurrentWeekOfYear(birth, today),
		Events:      make([]PlacedEvent, 0, len(events)),
	}

	g.YearsPassed = seq(1, min(g.CurrentYear-1, LifespanYears))
	g.FutureYears = seq(g.CurrentYear+1, LifespanYears)
	g.WeeksPassedThisYear = seq(1, g.CurrentWeek-1)
	g.WeeksLeftThisYear = seq(g.CurrentWeek+1, WeeksPerYear)

	for _, e := range events {
		g.Events = append(g.Events, PlacedEvent{
			Event:      e,
			Coordinate: EventCoordinate(birth, e.Date),
		})
	}
	return g
}

// seq returns [from, to]; empty when to < from.
func seq(from, to int) []int {
	if to < from {
		return []int{}
	}
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

// WeeksLived returns the number of whole weeks before the current one.
func (g *Grid) WeeksLived() int {
	return len(g.YearsPassed)*WeeksPerYear + len(g.WeeksPassedThisYear)
}

// WeeksRemaining returns the number of weeks after the current one.
func (g *Grid) WeeksRemaining() int {
	return len(g.FutureYears)*WeeksPerYear + len(g.WeeksLeftThisYear)
}

// Rows expands the grid into LifespanYears rows of WeeksPerYear cells.
func (g *Grid) Rows() []Row {
	byCoord := make(map[Coordinate][]PlacedEvent, len(g.Events))
	for _, e := range g.Events {
		byCoord[e.Coordinate] = append(byCoord[e.Coordinate], e)
	}

	rows := make([]Row, LifespanYears)
	for y := 1; y <= LifespanYears; y++ {
		row := Row{Year: y, State: stateOf(y, g.CurrentYear), Cells: make([]Cell, WeeksPerYear)}
		for w := 1; w <= WeeksPerYear; w++ {
			state := row.State
			if state == CellCurrent {
				state = stateOf(w, g.CurrentWeek)
			}
			row.Cells[w-1] = Cell{
				Week:   w,
				State:  state,
				Events: byCoord[Coordinate{Year: y, Week: w}],
			}
		}
		rows[y-1] = row
	}
	return rows
}

func stateOf(n, current int) CellState {
	switch {
	case n < current:
		return CellPast
	case n == current:
		return CellCurrent
	default:
		return CellFuture
	}
}

// Summary describes the grid in one sentence. A nil printer formats
// numbers for English.
func (g *Grid) Summary(p *message.Printer) string {
	if p == nil {
		p = message.NewPrinter(language.English)
	}
	return p.Sprintf("You are in week %d of year %d. %d weeks lived, %d weeks to go.",
		g.CurrentWeek, g.CurrentYear, g.WeeksLived(), g.WeeksRemaining())
}
