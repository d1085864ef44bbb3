package domain

import (
	"fmt"
	"time"
)

// Seoul is the zone inquiry timestamps are presented in.
var Seoul = loadSeoul()

func loadSeoul() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// FormatKorean renders t the way ko-KR locales print a date-time, e.g. "2025. 3. 7. 오후 2:05:09".
func FormatKorean(t time.Time) string {
	local := t.In(Seoul)
	meridiem := "오전"
	hour := local.Hour()
	if hour >= 12 {
		meridiem = "오후"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d. %d. %d. %s %d:%02d:%02d",
		local.Year(), int(local.Month()), local.Day(), meridiem, hour, local.Minute(), local.Second())
}
