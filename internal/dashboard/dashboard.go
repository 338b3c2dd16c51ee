// Package dashboard holds the console's home page figures and the chart
// shown on it. The figures are fixed placeholders, not computed from the
// families or users.
package dashboard

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/omnia-aid/omnia/internal/console"
)

type Event struct {
	Title    string
	Date     time.Time
	Time     string
	Location string
	Status   string
	// When is the relative day label, e.g. "Demain".
	When string
}

// Card is one figure of the statistics strip.
type Card struct {
	Title string
	Value string
	Icon  string
	Trend string
}

type Snapshot struct {
	Date                   time.Time
	TotalFamilies          int
	TotalDonations         decimal.Decimal
	AnnualTotal            decimal.Decimal
	GrowthRate             decimal.Decimal
	PendingFamilies        int
	UrgentNeeds            int
	CompletedDistributions int
	ActiveVolunteers       int
	Events                 []Event
}

// Placeholder returns the static snapshot as of now.
func Placeholder(now time.Time) Snapshot {
	events := []Event{
		{Title: "Distribution alimentaire Nord", Date: now, Time: "09:00 - 12:00", Location: "Centre communautaire Nord", Status: "confirmed"},
		{Title: "Réunion des bénévoles", Date: now.Add(24 * time.Hour), Time: "14:30 - 16:00", Location: "Siège OMNIA", Status: "planned"},
		{Title: "Collecte de fonds mensuelle", Date: now.Add(48 * time.Hour), Time: "10:00 - 18:00", Location: "Centre-ville", Status: "planned"},
	}
	for i := range events {
		events[i].When = console.RelativeDay(events[i].Date, now)
	}
	return Snapshot{
		Date:                   now,
		TotalFamilies:          156,
		TotalDonations:         decimal.NewFromInt(125000),
		AnnualTotal:            decimal.NewFromInt(285000),
		GrowthRate:             decimal.RequireFromString("18.5"),
		PendingFamilies:        12,
		UrgentNeeds:            7,
		CompletedDistributions: 43,
		ActiveVolunteers:       28,
		Events:                 events,
	}
}

func (s Snapshot) Cards() []Card {
	return []Card{
		{Title: "Familles suivies", Value: groupThousands(decimal.NewFromInt(int64(s.TotalFamilies))), Icon: "fas fa-users", Trend: "+" + s.GrowthRate.String() + " %"},
		{Title: "Dons du mois", Value: FormatAmount(s.TotalDonations), Icon: "fas fa-hand-holding-heart"},
		{Title: "Total annuel", Value: FormatAmount(s.AnnualTotal), Icon: "fas fa-chart-line"},
		{Title: "Bénévoles actifs", Value: groupThousands(decimal.NewFromInt(int64(s.ActiveVolunteers))), Icon: "fas fa-hands-helping"},
	}
}

// FormatAmount renders d in whole dinars with a space between thousands,
// e.g. "125 000 DT".
func FormatAmount(d decimal.Decimal) string {
	return groupThousands(d.Round(0)) + " DT"
}

func groupThousands(d decimal.Decimal) string {
	s := d.StringFixed(0)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}

// Series is one labelled line of the chart.
type Series struct {
	Label  string
	Labels []string
	Values []decimal.Decimal
}

// MonthlyDonations is the twelve-month donations line.
func MonthlyDonations() Series {
	values := []int64{18500, 22100, 19500, 27400, 25200, 31800, 28900, 34100, 31200, 37500, 34200, 41000}
	s := Series{
		Label:  "Dons (DT)",
		Labels: []string{"Jan", "Fév", "Mar", "Avr", "Mai", "Juin", "Juil", "Août", "Sep", "Oct", "Nov", "Déc"},
	}
	for _, v := range values {
		s.Values = append(s.Values, decimal.NewFromInt(v))
	}
	return s
}

// Total sums the series values.
func (s Series) Total() decimal.Decimal {
	return decimal.Sum(decimal.Zero, s.Values...)
}
