package scheduling

import (
	"fmt"
	"time"

	"github.com/travigo/transitops/pkg/ctdf"
	"github.com/travigo/transitops/pkg/errs"
)

const minutesPerDay = 24 * 60

// Clock is a time of day in minutes after midnight.
// Offsets added to late departures can run past 24:00, String wraps them.
type Clock int

func ParseClock(value string) (Clock, error) {
	parsed, err := time.Parse(ctdf.ClockFormat, value)
	if err != nil {
		return 0, errs.New(errs.ErrInvalidTime, "%q is not a HH:MM time", value)
	}

	return Clock(parsed.Hour()*60 + parsed.Minute()), nil
}

func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

func (c Clock) String() string {
	minutes := int(c) % minutesPerDay
	if minutes < 0 {
		minutes += minutesPerDay
	}

	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatTravelTime renders minutes the way tickets show them, "1h 5m" or "25m".
func FormatTravelTime(minutes int) string {
	hours := minutes / 60
	remainder := minutes % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, remainder)
	}

	return fmt.Sprintf("%dm", remainder)
}
