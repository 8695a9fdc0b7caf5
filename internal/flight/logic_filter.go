package flight

import (
	"strings"
	"time"
)

type predicate func(Flight) bool

// predicates compiles the active filters once so the loop over offers does no parsing.
func predicates(opts FilterOptions) []predicate {
	var ps []predicate

	if pr := opts.PriceRange; pr != nil {
		ps = append(ps, func(f Flight) bool {
			return f.Price.Amount >= pr.Low && (pr.High <= 0 || f.Price.Amount <= pr.High)
		})
	}
	if opts.MaxStops != nil {
		maxStops := *opts.MaxStops
		ps = append(ps, func(f Flight) bool { return f.Stops <= maxStops })
	}
	if opts.MaxDuration != nil {
		maxDuration := *opts.MaxDuration
		ps = append(ps, func(f Flight) bool { return f.Duration.TotalMinutes <= maxDuration })
	}
	if w := opts.DepartureTime; w != nil {
		from, to := clockSeconds(w.From), clockSeconds(w.To)
		ps = append(ps, func(f Flight) bool { return within(f.Departure.Datetime, from, to) })
	}
	if w := opts.ArrivalTime; w != nil {
		from, to := clockSeconds(w.From), clockSeconds(w.To)
		ps = append(ps, func(f Flight) bool { return within(f.Arrival.Datetime, from, to) })
	}
	if len(opts.FareClasses) > 0 {
		ps = append(ps, func(f Flight) bool { return containsFold(opts.FareClasses, f.FareClass) })
	}
	if len(opts.Airlines) > 0 {
		ps = append(ps, func(f Flight) bool {
			return containsFold(opts.Airlines, f.Airline.Code) || containsFold(opts.Airlines, f.Airline.Name)
		})
	}
	return ps
}

// applyFilters keeps the offers that pass every active filter.
func (s *Service) applyFilters(flights []Flight, opts FilterOptions) []Flight {
	ps := predicates(opts)
	filtered := make([]Flight, 0, len(flights))

next:
	for _, f := range flights {
		for _, p := range ps {
			if !p(f) {
				continue next
			}
		}
		filtered = append(filtered, f)
	}
	return filtered
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}

// clockSeconds parses "15:04" into seconds since midnight. "23:59" covers the whole last minute.
func clockSeconds(hhmm string) int64 {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0
	}
	if t.Hour() == 23 && t.Minute() == 59 {
		return 24*3600 - 1
	}
	return int64(t.Hour()*3600 + t.Minute()*60)
}

func within(dt time.Time, from, to int64) bool {
	sec := int64(dt.Hour()*3600 + dt.Minute()*60 + dt.Second())
	return sec >= from && sec <= to
}
