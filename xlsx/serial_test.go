package xlsx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateSerialAnchors(t *testing.T) {
	assert.Equal(t, 0.0, dateSerial(day(1899, time.December, 31)))
	assert.Equal(t, 1.0, dateSerial(day(1900, time.January, 1)))
	assert.Equal(t, 59.0, dateSerial(day(1900, time.February, 28)))

	// Serial 60 is the nonexistent 1900-02-29, kept as a gap for
	// compatibility with consuming spreadsheet applications.
	assert.Equal(t, 61.0, dateSerial(day(1900, time.March, 1)))

	assert.Equal(t, 25569.0, dateSerial(day(1970, time.January, 1)))
}

func TestDateSerialIgnoresTimeOfDay(t *testing.T) {
	noon := time.Date(2012, time.November, 10, 12, 30, 45, 0, time.UTC)
	assert.Equal(t, dateSerial(day(2012, time.November, 10)), dateSerial(noon))
}

func TestDateTimeSerial(t *testing.T) {
	got := dateTimeSerial(time.Date(2012, time.November, 10, 15, 17, 39, 0, time.UTC))
	assert.InDelta(t, 41223.63725694444, got, 1e-9)

	midnight := dateTimeSerial(day(2021, time.June, 15))
	assert.Equal(t, dateSerial(day(2021, time.June, 15)), midnight)
}
