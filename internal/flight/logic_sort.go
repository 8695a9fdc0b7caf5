package flight

import (
	"cmp"
	"slices"

	"travel/pkg/logger"
)

const (
	priceWeight    = 0.45
	durationWeight = 0.35
	stopsWeight    = 0.20
)

// sortKeys maps each sort criterion to an ascending comparison.
var sortKeys = map[string]func(a, b Flight) int{
	"price":          func(a, b Flight) int { return cmp.Compare(a.Price.Amount, b.Price.Amount) },
	"duration":       func(a, b Flight) int { return cmp.Compare(a.Duration.TotalMinutes, b.Duration.TotalMinutes) },
	"departure_time": func(a, b Flight) int { return cmp.Compare(a.Departure.Timestamp, b.Departure.Timestamp) },
	"arrival_time":   func(a, b Flight) int { return cmp.Compare(a.Arrival.Timestamp, b.Arrival.Timestamp) },
	"best_value":     func(a, b Flight) int { return cmp.Compare(score(a), score(b)) },
}

// applySorting returns a sorted copy. Ties keep their backend order so results don't jump.
func (s *Service) applySorting(flights []Flight, sortOpt SortOptions) []Flight {
	if len(flights) <= 1 {
		return flights
	}

	compare, ok := sortKeys[sortOpt.By]
	if !ok {
		s.logger.Warn("invalid_sort_criteria", logger.Field{Key: "sort_by", Value: sortOpt.By})
		return flights
	}

	sorted := slices.Clone(flights)
	if sortOpt.By == "best_value" {
		scoreBestValue(sorted)
	}

	// Best value ranks the highest score first unless asc is asked for; the rest default to ascending.
	descending := sortOpt.Order == "desc"
	if sortOpt.By == "best_value" {
		descending = sortOpt.Order != "asc"
	}

	slices.SortStableFunc(sorted, func(a, b Flight) int {
		if descending {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return sorted
}

func score(f Flight) float64 {
	if f.BestValueScore == nil {
		return 0
	}
	return *f.BestValueScore
}

type span[T cmp.Ordered] struct{ lo, hi T }

func spanOf[T cmp.Ordered](flights []Flight, key func(Flight) T) span[T] {
	sp := span[T]{lo: key(flights[0]), hi: key(flights[0])}
	for _, f := range flights[1:] {
		sp.lo = min(sp.lo, key(f))
		sp.hi = max(sp.hi, key(f))
	}
	return sp
}

// scoreBestValue weighs price, duration and stops, each normalised so the cheapest, shortest and most direct score 1.
func scoreBestValue(flights []Flight) {
	if len(flights) == 0 {
		return
	}
	price := spanOf(flights, func(f Flight) int64 { return f.Price.Amount })
	duration := spanOf(flights, func(f Flight) int { return f.Duration.TotalMinutes })
	stops := spanOf(flights, func(f Flight) int { return f.Stops })

	for i := range flights {
		f := &flights[i]
		v := priceWeight*normalize(float64(f.Price.Amount), float64(price.lo), float64(price.hi)) +
			durationWeight*normalize(float64(f.Duration.TotalMinutes), float64(duration.lo), float64(duration.hi)) +
			stopsWeight*normalize(float64(f.Stops), float64(stops.lo), float64(stops.hi))
		f.BestValueScore = &v
	}
}

// normalize maps val into [0,1] with the lowest value scoring 1.
func normalize(val, lo, hi float64) float64 {
	if hi > lo {
		return 1.0 - (val-lo)/(hi-lo)
	}
	return 1.0
}
