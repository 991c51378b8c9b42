package xlsx

import "time"

// serialEpoch is 1899-12-30, the day zero Excel uses for dates on or
// after 1900-03-01. Dates before that cutoff are shifted down by one so
// that serial 60 stays reserved for the nonexistent 1900-02-29, which
// spreadsheet applications carry for backward compatibility.
var (
	serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	leapCutoff  = time.Date(1900, time.March, 1, 0, 0, 0, 0, time.UTC)
)

// dateSerial converts the calendar day of t to its Excel serial number:
// 1899-12-31 -> 0, 1900-01-01 -> 1, 1900-03-01 -> 61.
func dateSerial(t time.Time) float64 {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := int(d.Sub(serialEpoch).Hours() / 24)
	if d.Before(leapCutoff) {
		days--
	}
	return float64(days)
}

// dateTimeSerial adds the time of day of t as a fractional day.
func dateTimeSerial(t time.Time) float64 {
	secs := float64(t.Hour()*3600+t.Minute()*60+t.Second()) + float64(t.Nanosecond())*1e-9
	return dateSerial(t) + secs/86400
}
