package flight

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"travel/internal/booking"
	"travel/pkg/apiclient"
	"travel/pkg/cache"
	"travel/pkg/format"
	"travel/pkg/logger"
	"travel/pkg/validate"
)

// Searcher is the backend's offer search.
type Searcher interface {
	Search(ctx context.Context, req apiclient.FlightSearchRequest) (*apiclient.FlightSearchResult, error)
}

type Service struct {
	searcher  Searcher
	cache     cache.Cache
	validator *validate.Validator
	ttl       time.Duration
	logger    logger.Logger
}

func NewService(searcher Searcher, c cache.Cache, v *validate.Validator, ttl time.Duration, log logger.Logger) *Service {
	return &Service{
		searcher:  searcher,
		cache:     c,
		validator: v,
		ttl:       ttl,
		logger:    log,
	}
}

func normalizeSearch(req SearchRequest) SearchRequest {
	req.Origin = strings.ToUpper(strings.TrimSpace(req.Origin))
	req.Destination = strings.ToUpper(strings.TrimSpace(req.Destination))
	req.FareClass = strings.ToUpper(strings.TrimSpace(req.FareClass))
	if req.Passengers <= 0 {
		req.Passengers = 1
	}
	return req
}

// searchEpochKey holds the generation every cached search key is built under.
const searchEpochKey = "flight:search:epoch"

func (s *Service) searchEpoch(ctx context.Context) string {
	epoch, err := s.cache.Get(ctx, searchEpochKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Error("Failed to read search epoch", logger.Err(err))
		}
		return "0"
	}
	return epoch
}

// generateCacheKey creates a deterministic key from search parameters
func (s *Service) generateCacheKey(epoch string, req SearchRequest) string {
	key := fmt.Sprintf("flight:%s:%s:%s:%s:%s:%d:%s",
		epoch,
		req.Origin,
		req.Destination,
		req.DepartureDate,
		req.ReturnDate,
		req.Passengers,
		req.FareClass,
	)

	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("flight:search:%x", hash[:16])
}

// SearchFlights returns the cached offers for req, asking the backend on a miss.
func (s *Service) SearchFlights(ctx context.Context, req SearchRequest) (*FlightSearchResponse, error) {
	req = normalizeSearch(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	return s.results(ctx, req)
}

// FilterFlights narrows and orders the cached result of req.SearchRequest. A miss searches again.
func (s *Service) FilterFlights(ctx context.Context, req FilterRequest) (*FlightSearchResponse, error) {
	req.SearchRequest = normalizeSearch(req.SearchRequest)
	if err := s.validator.Struct(req.SearchRequest); err != nil {
		return nil, err
	}

	response, err := s.results(ctx, req.SearchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh search results: %w", err)
	}

	flights := response.Flights
	if req.Filters != nil {
		flights = s.applyFilters(flights, *req.Filters)
	}
	if req.Sort != nil {
		flights = s.applySorting(flights, *req.Sort)
	}

	response.Flights = flights
	response.Metadata.TotalResults = len(flights)
	return response, nil
}

// Offer resolves one offer of a search for selection.
func (s *Service) Offer(ctx context.Context, req SearchRequest, offerID string) (*booking.SelectedFlight, error) {
	response, err := s.SearchFlights(ctx, req)
	if err != nil {
		return nil, err
	}
	for _, f := range response.Flights {
		if f.ID == offerID {
			return toSelection(f), nil
		}
	}
	return nil, ErrOfferNotFound
}

func (s *Service) results(ctx context.Context, req SearchRequest) (*FlightSearchResponse, error) {
	cacheKey := s.generateCacheKey(s.searchEpoch(ctx), req)

	var cached FlightSearchResponse
	found, err := cache.GetJSON(ctx, s.cache, cacheKey, &cached)
	if err != nil {
		s.logger.Error("Failed to read cached search", logger.Err(err), logger.Field{Key: "cache_key", Value: cacheKey})
	}
	if found {
		s.logger.Debug("Cache hit for search", logger.Field{Key: "cache_key", Value: cacheKey})
		cached.Metadata.CacheHit = true
		cached.Metadata.CacheKey = cacheKey
		return &cached, nil
	}

	s.logger.Info("Cache miss for search",
		logger.Field{Key: "cache_key", Value: cacheKey},
		logger.Field{Key: "route", Value: req.Origin + "->" + req.Destination},
	)

	startTime := time.Now()
	result, err := s.searcher.Search(ctx, apiclient.FlightSearchRequest{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
		Passengers:    req.Passengers,
		FareClass:     req.FareClass,
	})
	if err != nil {
		s.logger.Error("Flight search failed", logger.Err(err))
		return nil, err
	}

	flights := make([]Flight, 0, len(result.Offers))
	for _, o := range result.Offers {
		flights = append(flights, fromOffer(o))
	}
	response := &FlightSearchResponse{
		SearchCriteria: req,
		Metadata: Metadata{
			TotalResults: len(flights),
			SearchTimeMs: time.Since(startTime).Milliseconds(),
			CacheKey:     cacheKey,
		},
		Flights: flights,
	}

	if err := cache.SetJSON(ctx, s.cache, cacheKey, response, s.ttl); err != nil {
		s.logger.Error("Failed to cache response", logger.Err(err), logger.Field{Key: "cache_key", Value: cacheKey})
	}
	return response, nil
}

// InvalidateSearches moves every cached search out of reach by starting a new
// epoch. The old entries expire with their TTL.
func (s *Service) InvalidateSearches(ctx context.Context) error {
	epoch := strconv.FormatInt(time.Now().UnixNano(), 36)
	s.logger.Info("Invalidating cached searches", logger.Field{Key: "epoch", Value: epoch})
	return s.cache.Set(ctx, searchEpochKey, epoch, 0)
}

func fromOffer(o apiclient.FlightOffer) Flight {
	return Flight{
		ID:           o.ID,
		ScheduleID:   o.ScheduleID,
		FareID:       o.FareID,
		Airline:      Airline{Name: o.Airline.Name, Code: o.Airline.Code},
		FlightNumber: o.FlightNumber,
		Departure: LocationTime{
			Airport:   o.Departure.Airport,
			City:      o.Departure.City,
			Datetime:  o.Departure.Time,
			Timestamp: o.Departure.Time.Unix(),
		},
		Arrival: LocationTime{
			Airport:   o.Arrival.Airport,
			City:      o.Arrival.City,
			Datetime:  o.Arrival.Time,
			Timestamp: o.Arrival.Time.Unix(),
		},
		Duration: Duration{
			TotalMinutes: o.DurationMinutes,
			Formatted:    format.FormatDuration(o.DurationMinutes),
		},
		Stops:          o.Stops,
		Price:          format.Money{Amount: o.Price, Currency: o.Currency},
		AvailableSeats: o.AvailableSeats,
		FareClass:      o.FareClass,
		Aircraft:       o.Aircraft,
		Amenities:      o.Amenities,
	}
}

func toSelection(f Flight) *booking.SelectedFlight {
	return &booking.SelectedFlight{
		AirlineName:     f.Airline.Name,
		AirlineCode:     f.Airline.Code,
		FlightNumber:    f.FlightNumber,
		OriginCode:      f.Departure.Airport,
		DestinationCode: f.Arrival.Airport,
		DepartureTime:   f.Departure.Datetime,
		ArrivalTime:     f.Arrival.Datetime,
		DurationMinutes: f.Duration.TotalMinutes,
		SeatClass:       f.FareClass,
		Price:           f.Price,
		ScheduleID:      f.ScheduleID,
		FareID:          f.FareID,
	}
}
