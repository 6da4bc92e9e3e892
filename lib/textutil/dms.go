package textutil

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var decimalCoord = regexp.MustCompile(`-?\d+\.\d+`)

// ToDMS converts a "lat, lon" decimal coordinate pair into
// degrees-minutes-seconds form, e.g.
// `29°41'27.7"N 82°21'14.1"W`. Input without two decimal numbers
// yields "".
func ToDMS(coords string) string {
	// some sources mangle the longitude sign into "20-"
	coords = strings.ReplaceAll(coords, "20-", "-")
	matches := decimalCoord.FindAllString(coords, -1)
	if len(matches) < 2 {
		return ""
	}
	lat, err1 := strconv.ParseFloat(matches[0], 64)
	lon, err2 := strconv.ParseFloat(matches[1], 64)
	if err1 != nil || err2 != nil {
		return ""
	}
	return formatDMS(lat, "N", "S") + " " + formatDMS(lon, "E", "W")
}

func formatDMS(value float64, positive, negative string) string {
	hemisphere := positive
	if value < 0 {
		hemisphere = negative
		value = -value
	}
	degrees := int(value)
	minutesFull := (value - float64(degrees)) * 60
	minutes := int(minutesFull)
	seconds := (minutesFull - float64(minutes)) * 60
	seconds = math.Round(seconds*10) / 10
	if seconds >= 60 {
		seconds -= 60
		minutes++
	}
	if minutes >= 60 {
		minutes -= 60
		degrees++
	}
	return fmt.Sprintf(`%d°%d'%.1f"%s`, degrees, minutes, seconds, hemisphere)
}
