package pkm

import "sort"

// Goal is the capital-growth challenge configuration: grow a starting
// capital to a target within a number of days.
type Goal struct {
	StartingCapital float64
	TargetCapital   float64
	DurationDays    int
	StartDate       Date
}

// GoalRecord is one daily capital entry of the challenge. The derived
// columns (days remaining, target, amount remaining) are persisted with the
// row so the log reads as a standalone sheet.
type GoalRecord struct {
	ID              int
	Date            Date
	Delta           float64 // change versus the previous capital; zero for day zero
	Capital         float64
	DaysRemaining   int
	Target          float64
	AmountRemaining float64
}

// GoalStatus is the derived progress of the challenge on a given day.
type GoalStatus struct {
	Goal

	Current       float64
	DaysPassed    int
	DaysRemaining int
	Remaining     float64 // capital still missing; never negative
	DailyTarget   float64 // Remaining spread over the days left
	Progress      Percent // of the starting-to-target distance covered
}

// Tracker manages the challenge configuration and its daily history.
type Tracker struct {
	settings Table
	history  Table
}

var (
	goalSettingsHeader = []string{"starting_capital", "target_capital", "duration_days", "start_date"}
	goalHistoryHeader  = []string{"id", "date", "delta", "capital", "days_remaining", "target", "amount_remaining"}
)

// NewTracker opens (or creates) the goal tables in s.
func NewTracker(s Store) (*Tracker, error) {
	settings, err := s.Table("goal_settings", goalSettingsHeader)
	if err != nil {
		return nil, err
	}
	history, err := s.Table("goal_history", goalHistoryHeader)
	if err != nil {
		return nil, err
	}
	return &Tracker{settings: settings, history: history}, nil
}

// Init starts a challenge. The target must exceed the starting capital and
// the duration must be positive. The configuration is set exactly once:
// while a challenge is active, Init is rejected and only Reset can clear it.
func (t *Tracker) Init(g Goal) error {
	if _, active, err := t.Goal(); err != nil {
		return err
	} else if active {
		return invalidf("a challenge is already active; reset it first")
	}
	if g.StartingCapital <= 0 {
		return invalidf("starting capital must be > 0, got %v", g.StartingCapital)
	}
	if g.TargetCapital <= g.StartingCapital {
		return invalidf("target capital %v must exceed starting capital %v", g.TargetCapital, g.StartingCapital)
	}
	if g.DurationDays <= 0 {
		return invalidf("challenge duration must be > 0 days, got %d", g.DurationDays)
	}
	if g.StartDate.IsZero() {
		g.StartDate = Today()
	}
	row := []string{
		FormatDecimal(g.StartingCapital),
		FormatDecimal(g.TargetCapital),
		FormatID(g.DurationDays),
		g.StartDate.String(),
	}
	if err := t.settings.Append(row); err != nil {
		return err
	}
	if err := t.history.Clear(); err != nil {
		return err
	}
	// Day zero opens the log: the starting capital with no change yet.
	day0 := GoalRecord{
		ID:              1,
		Date:            g.StartDate,
		Capital:         round2(g.StartingCapital),
		DaysRemaining:   g.DurationDays,
		Target:          g.TargetCapital,
		AmountRemaining: round2(g.TargetCapital - g.StartingCapital),
	}
	return t.history.Append(goalRecordRow(day0))
}

func goalRecordRow(r GoalRecord) []string {
	return []string{
		FormatID(r.ID),
		r.Date.String(),
		FormatDecimal(r.Delta),
		FormatDecimal(r.Capital),
		FormatID(r.DaysRemaining),
		FormatDecimal(r.Target),
		FormatDecimal(r.AmountRemaining),
	}
}

// Goal returns the active challenge configuration, or false when none was
// initialized.
func (t *Tracker) Goal() (Goal, bool, error) {
	rows, err := t.settings.Rows()
	if err != nil {
		return Goal{}, false, err
	}
	if len(rows) == 0 {
		return Goal{}, false, nil
	}
	row := rows[len(rows)-1] // the latest row wins if the sheet was hand-edited
	start, _ := ParseDate(cell(row, 3))
	g := Goal{
		StartingCapital: ParseDecimal(cell(row, 0)),
		TargetCapital:   ParseDecimal(cell(row, 1)),
		DurationDays:    ParseID(cell(row, 2)),
		StartDate:       start,
	}
	return g, true, nil
}

// Records returns the daily history in chronological order.
func (t *Tracker) Records() ([]GoalRecord, error) {
	rows, err := t.history.Rows()
	if err != nil {
		return nil, err
	}
	list := make([]GoalRecord, 0, len(rows))
	for _, row := range rows {
		d, err := ParseDate(cell(row, 1))
		if err != nil {
			continue
		}
		list = append(list, GoalRecord{
			ID:              ParseID(cell(row, 0)),
			Date:            d,
			Delta:           ParseDecimal(cell(row, 2)),
			Capital:         ParseDecimal(cell(row, 3)),
			DaysRemaining:   ParseID(cell(row, 4)),
			Target:          ParseDecimal(cell(row, 5)),
			AmountRemaining: ParseDecimal(cell(row, 6)),
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	return list, nil
}

// Record appends today's capital for date d. The delta against the previous
// capital is computed here, falling back to the starting capital when the
// log is empty; a second entry for the same date is rejected.
func (t *Tracker) Record(d Date, capital float64) (GoalRecord, error) {
	g, ok, err := t.Goal()
	if err != nil {
		return GoalRecord{}, err
	} else if !ok {
		return GoalRecord{}, invalidf("no active challenge; initialize one first")
	}
	list, err := t.Records()
	if err != nil {
		return GoalRecord{}, err
	}
	previous := g.StartingCapital
	maxID := 0
	for _, r := range list {
		if r.Date == d {
			return GoalRecord{}, DuplicateSnapshotError{Table: t.history.Name(), Date: d}
		}
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	if len(list) > 0 {
		previous = list[len(list)-1].Capital
	}
	rec := GoalRecord{
		ID:              maxID + 1,
		Date:            d,
		Delta:           round2(capital - previous),
		Capital:         round2(capital),
		DaysRemaining:   g.DurationDays - d.DaysSince(g.StartDate),
		Target:          g.TargetCapital,
		AmountRemaining: round2(g.TargetCapital - capital),
	}
	if err := t.history.Append(goalRecordRow(rec)); err != nil {
		return GoalRecord{}, err
	}
	return rec, nil
}

// Status derives the challenge progress as of date d, valuing the portfolio
// at current.
func (t *Tracker) Status(d Date, current float64) (GoalStatus, error) {
	g, ok, err := t.Goal()
	if err != nil {
		return GoalStatus{}, err
	}
	if !ok {
		return GoalStatus{}, invalidf("no active challenge; initialize one first")
	}
	s := GoalStatus{Goal: g, Current: round2(current)}
	s.DaysPassed = d.DaysSince(g.StartDate)
	if s.DaysPassed < 0 {
		s.DaysPassed = 0
	}
	s.DaysRemaining = g.DurationDays - s.DaysPassed
	if s.DaysRemaining < 0 {
		s.DaysRemaining = 0
	}
	s.Remaining = g.TargetCapital - current
	if s.Remaining < 0 {
		s.Remaining = 0
	}
	s.Remaining = round2(s.Remaining)
	if s.DaysRemaining > 0 {
		s.DailyTarget = round2(s.Remaining / float64(s.DaysRemaining))
	}
	s.Progress = percentOf(current-g.StartingCapital, g.TargetCapital-g.StartingCapital)
	return s, nil
}

// Reset abandons the challenge: both the configuration and the daily
// history are wiped.
func (t *Tracker) Reset() error {
	if err := t.history.Clear(); err != nil {
		return err
	}
	return t.settings.Clear()
}
