package apiclient

import (
	"context"
	"net/http"
	"time"
)

type FlightSchedule struct {
	ID            string    `json:"id"`
	FlightID      string    `json:"flightId"`
	FlightNumber  string    `json:"flightNumber,omitempty"`
	AircraftID    string    `json:"aircraftId"`
	AircraftModel string    `json:"aircraftModel,omitempty"`
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
	Status        string    `json:"status,omitempty"`
}

type CreateScheduleRequest struct {
	FlightID      string    `json:"flightId"`
	AircraftID    string    `json:"aircraftId"`
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
}

type UpdateScheduleRequest struct {
	AircraftID    string    `json:"aircraftId"`
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
	Status        string    `json:"status,omitempty"`
}

type SchedulesClient struct {
	c *Client
}

func NewSchedulesClient(c *Client) *SchedulesClient {
	return &SchedulesClient{c: c}
}

const schedulesBase = "/api/v1/flight-schedules"

func (s *SchedulesClient) List(ctx context.Context, p ListParams) (*Page[FlightSchedule], error) {
	return crud[FlightSchedule, struct{}]{c: s.c, resource: "schedules", base: schedulesBase}.List(ctx, p)
}

func (s *SchedulesClient) Get(ctx context.Context, id string) (*FlightSchedule, error) {
	return crud[FlightSchedule, struct{}]{c: s.c, resource: "schedules", base: schedulesBase}.Get(ctx, id)
}

func (s *SchedulesClient) Create(ctx context.Context, in CreateScheduleRequest) (*FlightSchedule, error) {
	var out FlightSchedule
	err := s.c.do(ctx, request{
		method:   http.MethodPost,
		path:     schedulesBase,
		resource: "schedules",
		body:     in,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SchedulesClient) Update(ctx context.Context, id string, in UpdateScheduleRequest) (*FlightSchedule, error) {
	var out FlightSchedule
	err := s.c.do(ctx, request{
		method:   http.MethodPut,
		path:     schedulesBase + path(id),
		resource: "schedules",
		body:     in,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SchedulesClient) Delete(ctx context.Context, id string) error {
	return crud[FlightSchedule, struct{}]{c: s.c, resource: "schedules", base: schedulesBase}.Delete(ctx, id)
}
