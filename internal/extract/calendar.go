package extract

import (
	"time"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// TimeRow derives the calendar row for ts (epoch milliseconds) in UTC.
// Week is the ISO 8601 week number and weekday counts from Monday = 0.
func TimeRow(ts int64) sparkify.TimeRow {
	t := time.UnixMilli(ts).UTC()
	_, week := t.ISOWeek()
	return sparkify.TimeRow{
		StartTime: t,
		Hour:      t.Hour(),
		Day:       t.Day(),
		Week:      week,
		Month:     int(t.Month()),
		Year:      t.Year(),
		Weekday:   (int(t.Weekday()) + 6) % 7,
	}
}
