package reservation

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/yeremiapane/table-reservation/models"
)

type Utilization struct {
	Overall  float64            `json:"overall"`
	PerTable map[string]float64 `json:"per_table"`
}

type HourCount struct {
	Hour       string  `json:"hour"`
	Bookings   int     `json:"bookings"`
	Percentage float64 `json:"percentage"`
}

type CompletionRates struct {
	Total     int     `json:"total"`
	Completed float64 `json:"completed"`
	Cancelled float64 `json:"cancelled"`
	NoShow    float64 `json:"no_show"`
}

type Statistics struct {
	PeriodDays       int             `json:"period_days"`
	Utilization      Utilization     `json:"utilization"`
	BusiestHours     []HourCount     `json:"busiest_hours"`
	Completion       CompletionRates `json:"completion"`
	TotalBookings    int             `json:"total_bookings"`
	TotalGuests      int             `json:"total_guests"`
	AveragePartySize float64         `json:"average_party_size"`
	PeakDay          string          `json:"peak_day,omitempty"`
	PeakDayBookings  int             `json:"peak_day_bookings"`
}

// Statistics summarises the bookings dated within the last days days.
// Cancelled bookings count only toward the completion rates.
func (e *Engine) Statistics(now time.Time, days int, bookings []models.Booking, tables []models.Table) Statistics {
	if days <= 0 {
		days = 7
	}
	now = now.In(e.loc)
	cutoff := now.AddDate(0, 0, -days).Format(models.DateLayout)

	st := Statistics{
		PeriodDays:  days,
		Utilization: Utilization{PerTable: make(map[string]float64, len(tables))},
	}

	seatHours := make(map[string]float64, len(tables))
	var totalCapacity float64
	for _, t := range tables {
		capacity := float64(t.Seats * days * 24)
		seatHours[t.Name] = capacity
		totalCapacity += capacity
		st.Utilization.PerTable[t.Name] = 0
	}

	var hourly [24]int
	daily := make(map[string]int)
	var used float64
	var completed, cancelled, noShow int

	for i := range bookings {
		b := &bookings[i]
		if b.Date < cutoff {
			continue
		}

		st.Completion.Total++
		switch b.Status {
		case models.BookingCompleted:
			completed++
		case models.BookingCancelled:
			cancelled++
			continue
		case models.BookingActive:
			if start, err := e.ParseStart(b.Date, b.Time); err == nil && start.Before(now) {
				noShow++
			}
		}

		st.TotalBookings++
		st.TotalGuests += b.PartySize
		daily[b.Date]++

		d := b.Duration()
		if d <= 0 {
			d = e.defaultDuration
		}
		guestHours := float64(b.PartySize) * d.Hours()
		used += guestHours
		if _, ok := seatHours[b.TableName]; ok {
			st.Utilization.PerTable[b.TableName] += guestHours
		}

		if len(b.Time) >= 2 {
			if h, err := strconv.Atoi(b.Time[:2]); err == nil && h >= 0 && h < 24 {
				hourly[h]++
			}
		}
	}

	if totalCapacity > 0 {
		st.Utilization.Overall = round(used/totalCapacity*100, 2)
	}
	for name, guestHours := range st.Utilization.PerTable {
		if c := seatHours[name]; c > 0 {
			st.Utilization.PerTable[name] = round(guestHours/c*100, 2)
		}
	}

	st.BusiestHours = busiestHours(hourly)

	if total := st.Completion.Total; total > 0 {
		st.Completion.Completed = round(float64(completed)/float64(total)*100, 1)
		st.Completion.Cancelled = round(float64(cancelled)/float64(total)*100, 1)
		st.Completion.NoShow = round(float64(noShow)/float64(total)*100, 1)
	}

	if st.TotalBookings > 0 {
		st.AveragePartySize = round(float64(st.TotalGuests)/float64(st.TotalBookings), 1)
	}
	for day, n := range daily {
		if n > st.PeakDayBookings || (n == st.PeakDayBookings && day < st.PeakDay) {
			st.PeakDay, st.PeakDayBookings = day, n
		}
	}

	return st
}

func busiestHours(hourly [24]int) []HourCount {
	top := 0
	for _, n := range hourly {
		if n > top {
			top = n
		}
	}

	out := make([]HourCount, 0)
	for h, n := range hourly {
		if n == 0 {
			continue
		}
		out = append(out, HourCount{
			Hour:       fmt.Sprintf("%02d:00", h),
			Bookings:   n,
			Percentage: round(float64(n)/float64(top)*100, 1),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Bookings > out[j].Bookings
	})
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
