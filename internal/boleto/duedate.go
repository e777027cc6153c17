package boleto

import (
	"fmt"
	"time"
)

// Epoch anchors the due-date factor to the calendar: factor BaseFactor falls
// on Date and every factor step is one day.
type Epoch struct {
	Date       time.Time
	BaseFactor uint16
}

var (
	// DefaultEpoch puts factor 1000 on 1997-10-07.
	DefaultEpoch = Epoch{Date: civilDate(1997, time.October, 7), BaseFactor: 1000}

	// RolloverEpoch2025 restarts the factor at 1000 on 2025-02-22, the day
	// after the four-digit field reached 9999 under LegacyEpoch.
	//
	// It does not continue DefaultEpoch, whose factor 9999 is 2022-05-28.
	// Due dates from 2022-05-29 through 2025-02-21 have no factor in
	// 1000..9999 under either epoch; RolloverEpoch2025 reaches them only
	// through factors below 1000.
	RolloverEpoch2025 = Epoch{Date: civilDate(2025, time.February, 22), BaseFactor: 1000}

	// LegacyEpoch reads the factor as a raw day offset from 1997-10-07.
	LegacyEpoch = Epoch{Date: civilDate(1997, time.October, 7), BaseFactor: 0}
)

var epochPresets = map[string]Epoch{
	"default":       DefaultEpoch,
	"rollover-2025": RolloverEpoch2025,
	"legacy":        LegacyEpoch,
}

// EpochPreset returns a named epoch: "default", "rollover-2025" or "legacy".
func EpochPreset(name string) (Epoch, error) {
	e, ok := epochPresets[name]
	if !ok {
		return Epoch{}, fmt.Errorf("unknown due date preset %q", name)
	}
	return e, nil
}

func civilDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Resolve converts a due-date factor into a date. Factor 0 means the slip
// carries no due date and yields an open DueDate.
func (e Epoch) Resolve(factor int) DueDate {
	if factor == 0 {
		return DueDate{}
	}
	return DueDate{date: e.Date.AddDate(0, 0, factor-int(e.BaseFactor)), set: true}
}

// Factor is the inverse of Resolve for dates representable in four digits.
func (e Epoch) Factor(t time.Time) (int, error) {
	day := civilDate(t.Year(), t.Month(), t.Day())
	f := int(e.BaseFactor) + int(day.Sub(e.Date).Hours()/24)
	if f < 1 || f > 9999 {
		return 0, fmt.Errorf("date %s is outside the factor range of epoch %s", day.Format(time.DateOnly), e)
	}
	return f, nil
}

func (e Epoch) String() string {
	return fmt.Sprintf("%s/%d", e.Date.Format(time.DateOnly), e.BaseFactor)
}

// DueDate is either a calendar date or open, when the slip has no due date.
type DueDate struct {
	date time.Time
	set  bool
}

// Time returns the due date and whether one is specified.
func (d DueDate) Time() (time.Time, bool) {
	return d.date, d.set
}

// Open reports whether the slip leaves the due date unspecified.
func (d DueDate) Open() bool {
	return !d.set
}

// String formats the date as YYYY-MM-DD, or returns "" when open.
func (d DueDate) String() string {
	if !d.set {
		return ""
	}
	return d.date.Format(time.DateOnly)
}
