package console

import (
	"fmt"
	"math"
	"time"
)

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// FormatDate renders t as "15 janvier 2024 à 10:30".
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "Non disponible"
	}
	return fmt.Sprintf("%02d %s %d à %02d:%02d",
		t.Day(), frenchMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// FormatDateShort renders t as dd/mm/yyyy.
func FormatDateShort(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	return t.Format("02/01/2006")
}

// FormatDateTime renders t as dd/mm/yyyy hh:mm, the list column format.
func FormatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	return t.Format("02/01/2006 15:04")
}

// RelativeDay labels a date by whole days from now, rounding away from
// today in both directions.
func RelativeDay(t, now time.Time) string {
	diff := t.Sub(now)
	past := diff < 0
	if past {
		diff = -diff
	}
	days := int(math.Ceil(diff.Hours() / 24))
	switch {
	case days == 0:
		return "Aujourd'hui"
	case days == 1 && past:
		return "Hier"
	case days == 1:
		return "Demain"
	case past:
		return fmt.Sprintf("Il y a %d jours", days)
	default:
		return fmt.Sprintf("Dans %d jours", days)
	}
}
