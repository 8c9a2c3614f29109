package analytical

import (
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const secondsPerDay = 86400.0

// JulianDate returns the Julian date of the provided time, in UTC.
func JulianDate(dt time.Time) float64 {
	return julian.TimeToJD(dt.UTC())
}

// elapsedSeconds returns the number of seconds between from and to, computed
// on Julian dates. time.Duration saturates at about 292 years, which a
// secular theory evaluated over long spans will happily exceed.
func elapsedSeconds(from, to time.Time) float64 {
	return (julian.TimeToJD(to.UTC()) - julian.TimeToJD(from.UTC())) * secondsPerDay
}
