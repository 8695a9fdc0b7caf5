package flight

import (
	"context"
	"errors"
	"testing"
	"time"

	"travel/pkg/apiclient"
	"travel/pkg/cache"
	"travel/pkg/logger"
	"travel/pkg/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	calls  int
	offers []apiclient.FlightOffer
	err    error
}

func (f *fakeSearcher) Search(_ context.Context, _ apiclient.FlightSearchRequest) (*apiclient.FlightSearchResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &apiclient.FlightSearchResult{Offers: f.offers}, nil
}

func offer(id, airline, fare string, price int64, minutes, stops int, departHour int) apiclient.FlightOffer {
	dep := time.Date(2026, 12, 1, departHour, 0, 0, 0, time.UTC)
	return apiclient.FlightOffer{
		ID:              id,
		Airline:         apiclient.OfferAirline{Name: airline + " Air", Code: airline},
		FlightNumber:    airline + "100",
		Departure:       apiclient.OfferEndpoint{Airport: "SGN", Time: dep},
		Arrival:         apiclient.OfferEndpoint{Airport: "HAN", Time: dep.Add(time.Duration(minutes) * time.Minute)},
		DurationMinutes: minutes,
		Stops:           stops,
		FareClass:       fare,
		Price:           price,
		Currency:        "VND",
	}
}

func sampleOffers() []apiclient.FlightOffer {
	return []apiclient.FlightOffer{
		offer("o1", "VN", "ECONOMY", 2_000_000, 130, 0, 6),
		offer("o2", "VJ", "ECONOMY", 1_200_000, 135, 0, 9),
		offer("o3", "QH", "BUSINESS", 5_500_000, 125, 0, 14),
		offer("o4", "VJ", "ECONOMY", 900_000, 300, 1, 21),
	}
}

var route = SearchRequest{Origin: "sgn", Destination: "han", DepartureDate: "2026-12-01"}

func newTestService(s Searcher) *Service {
	return NewService(s, cache.NewMemoryCache(), validate.New(), 10*time.Minute, logger.Nop())
}

func ids(flights []Flight) []string {
	out := make([]string, 0, len(flights))
	for _, f := range flights {
		out = append(out, f.ID)
	}
	return out
}

func TestSearchFlightsCachesResults(t *testing.T) {
	backend := &fakeSearcher{offers: sampleOffers()}
	s := newTestService(backend)
	ctx := context.Background()

	first, err := s.SearchFlights(ctx, route)
	require.NoError(t, err)
	assert.False(t, first.Metadata.CacheHit)
	assert.Len(t, first.Flights, 4)
	assert.Equal(t, "SGN", first.SearchCriteria.Origin)
	assert.Equal(t, "2h 10m", first.Flights[0].Duration.Formatted)

	second, err := s.SearchFlights(ctx, route)
	require.NoError(t, err)
	assert.True(t, second.Metadata.CacheHit)
	assert.Equal(t, 1, backend.calls)

	require.NoError(t, s.InvalidateSearches(ctx))
	third, err := s.SearchFlights(ctx, route)
	require.NoError(t, err)
	assert.False(t, third.Metadata.CacheHit)
	assert.Equal(t, 2, backend.calls)
}

func TestSearchFlightsValidatesBeforeCalling(t *testing.T) {
	backend := &fakeSearcher{}
	s := newTestService(backend)

	_, err := s.SearchFlights(context.Background(), SearchRequest{Origin: "SG", Destination: "HAN", DepartureDate: "2026-12-01"})

	var fe *validate.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "must be a 3-letter IATA code", fe.Fields["origin"])
	assert.Zero(t, backend.calls)
}

func TestSearchFlightsBackendError(t *testing.T) {
	s := newTestService(&fakeSearcher{err: &apiclient.APIError{Status: 503, Message: "search unavailable"}})

	_, err := s.SearchFlights(context.Background(), route)
	assert.EqualError(t, err, "search unavailable")
}

func TestFilterFlights(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	tests := []struct {
		name    string
		filters *FilterOptions
		sort    *SortOptions
		want    []string
	}{
		{name: "no filters", want: []string{"o1", "o2", "o3", "o4"}},
		{name: "price range", filters: &FilterOptions{PriceRange: &PriceRange{Low: 1_000_000, High: 2_500_000}}, want: []string{"o1", "o2"}},
		{name: "direct only", filters: &FilterOptions{MaxStops: intPtr(0)}, want: []string{"o1", "o2", "o3"}},
		{name: "fare class", filters: &FilterOptions{FareClasses: []string{"business"}}, want: []string{"o3"}},
		{name: "airline", filters: &FilterOptions{Airlines: []string{"vj"}}, want: []string{"o2", "o4"}},
		{name: "departure window", filters: &FilterOptions{DepartureTime: &TimeWindow{From: "08:00", To: "15:00"}}, want: []string{"o2", "o3"}},
		{name: "max duration", filters: &FilterOptions{MaxDuration: intPtr(130)}, want: []string{"o1", "o3"}},
		{name: "price asc", sort: &SortOptions{By: "price"}, want: []string{"o4", "o2", "o1", "o3"}},
		{name: "duration desc", sort: &SortOptions{By: "duration", Order: "desc"}, want: []string{"o4", "o2", "o1", "o3"}},
		{name: "departure", sort: &SortOptions{By: "departure_time", Order: "desc"}, want: []string{"o4", "o3", "o2", "o1"}},
		{
			name:    "filter then sort",
			filters: &FilterOptions{FareClasses: []string{"ECONOMY"}},
			sort:    &SortOptions{By: "price", Order: "desc"},
			want:    []string{"o1", "o2", "o4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(&fakeSearcher{offers: sampleOffers()})

			resp, err := s.FilterFlights(context.Background(), FilterRequest{SearchRequest: route, Filters: tt.filters, Sort: tt.sort})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(resp.Flights))
			assert.Equal(t, len(tt.want), resp.Metadata.TotalResults)
		})
	}
}

func TestFilterFlightsBestValue(t *testing.T) {
	s := newTestService(&fakeSearcher{offers: sampleOffers()})

	resp, err := s.FilterFlights(context.Background(), FilterRequest{SearchRequest: route, Sort: &SortOptions{By: "best_value"}})
	require.NoError(t, err)

	require.Len(t, resp.Flights, 4)
	assert.Equal(t, "o2", resp.Flights[0].ID)
	for i := 1; i < len(resp.Flights); i++ {
		require.NotNil(t, resp.Flights[i].BestValueScore)
		assert.GreaterOrEqual(t, *resp.Flights[i-1].BestValueScore, *resp.Flights[i].BestValueScore)
	}
}

func TestFilterFlightsRefetchesOnMiss(t *testing.T) {
	backend := &fakeSearcher{offers: sampleOffers()}
	s := newTestService(backend)

	_, err := s.FilterFlights(context.Background(), FilterRequest{SearchRequest: route})
	require.NoError(t, err)
	_, err = s.FilterFlights(context.Background(), FilterRequest{SearchRequest: route})
	require.NoError(t, err)

	assert.Equal(t, 1, backend.calls)
}

func TestOffer(t *testing.T) {
	s := newTestService(&fakeSearcher{offers: sampleOffers()})

	sel, err := s.Offer(context.Background(), route, "o3")
	require.NoError(t, err)
	assert.Equal(t, "QH", sel.AirlineCode)
	assert.Equal(t, "BUSINESS", sel.SeatClass)
	assert.Equal(t, "SGN", sel.OriginCode)
	assert.Equal(t, "HAN", sel.DestinationCode)
	assert.Equal(t, int64(5_500_000), sel.Price.Amount)
	assert.Equal(t, "VND", sel.Price.Currency)

	_, err = s.Offer(context.Background(), route, "missing")
	assert.True(t, errors.Is(err, ErrOfferNotFound))
}
