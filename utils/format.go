package utils

import (
	"fmt"
	"time"
)

var (
	idWeekdays = [...]string{"Min", "Sen", "Sel", "Rab", "Kam", "Jum", "Sab"}
	idMonths   = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}
)

// Jakarta is the zone booking times are displayed in.
var Jakarta = loadJakarta()

func loadJakarta() *time.Location {
	if loc, err := time.LoadLocation("Asia/Jakarta"); err == nil {
		return loc
	}
	return time.FixedZone("WIB", 7*60*60)
}

// FormatDateTimeID renders t like the app's id-ID booking cards, e.g. "Sen, 19 Feb 2024 14.30".
func FormatDateTimeID(t time.Time) string {
	t = t.In(Jakarta)
	return fmt.Sprintf("%s, %d %s %d %02d.%02d",
		idWeekdays[t.Weekday()], t.Day(), idMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// FormatChatTimeID renders a message timestamp: the time of day when it is
// less than 24 hours old, otherwise day and month.
func FormatChatTimeID(t, now time.Time) string {
	t = t.In(Jakarta)
	if now.Sub(t) < 24*time.Hour {
		return fmt.Sprintf("%02d.%02d", t.Hour(), t.Minute())
	}
	return fmt.Sprintf("%d %s", t.Day(), idMonths[t.Month()-1])
}
