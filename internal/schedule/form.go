package schedule

import (
	"errors"
	"time"

	"travel/pkg/apiclient"
	"travel/pkg/validate"
)

const (
	suggestedDuration = 2 * time.Hour
	minDuration       = 30 * time.Minute
	maxDuration       = 20 * time.Hour
)

// Form is the flight schedule editor. Existing is nil for a new schedule.
type Form struct {
	FlightID      string                    `json:"flightId" validate:"required"`
	AircraftID    string                    `json:"aircraftId" validate:"required"`
	DepartureTime *time.Time                `json:"departureTime" validate:"required"`
	ArrivalTime   *time.Time                `json:"arrivalTime" validate:"required"`
	Status        string                    `json:"status,omitempty" validate:"omitempty,oneof=SCHEDULED DELAYED CANCELLED DEPARTED ARRIVED"`
	Existing      *apiclient.FlightSchedule `json:"-"`
}

// Open prepares the form for editing existing, or for a new schedule departing at departure.
func Open(existing *apiclient.FlightSchedule, departure *time.Time) *Form {
	f := &Form{}
	if existing != nil {
		dep, arr := existing.DepartureTime, existing.ArrivalTime
		f.FlightID = existing.FlightID
		f.AircraftID = existing.AircraftID
		f.DepartureTime = &dep
		f.ArrivalTime = &arr
		f.Status = existing.Status
		f.Existing = existing
		return f
	}
	f.DepartureTime = departure
	f.SuggestArrival()
	return f
}

func (f *Form) IsNew() bool {
	return f.Existing == nil
}

// SuggestArrival fills an empty arrival with departure + 2h and reports whether it did.
func (f *Form) SuggestArrival() bool {
	if f.ArrivalTime != nil || f.DepartureTime == nil {
		return false
	}
	arr := f.DepartureTime.Add(suggestedDuration)
	f.ArrivalTime = &arr
	return true
}

// Validate checks the form against now. It returns *validate.FieldErrors or nil.
func (f *Form) Validate(v *validate.Validator, now time.Time) error {
	errs := &validate.FieldErrors{}
	if err := v.Struct(f); err != nil && !errors.As(err, &errs) {
		return err
	}

	if f.DepartureTime != nil && f.ArrivalTime != nil {
		d := f.ArrivalTime.Sub(*f.DepartureTime)
		switch {
		case d <= 0:
			errs.Add("arrivalTime", "arrival time must be after departure time")
		case d < minDuration:
			errs.Add("arrivalTime", "duration must be at least 30 minutes")
		case d > maxDuration:
			errs.Add("arrivalTime", "duration must not exceed 20 hours")
		}
	}
	if f.IsNew() && f.DepartureTime != nil && !f.DepartureTime.After(now) {
		errs.Add("departureTime", "departure time must be in the future")
	}
	return errs.Err()
}

func (f *Form) CreateRequest() apiclient.CreateScheduleRequest {
	return apiclient.CreateScheduleRequest{
		FlightID:      f.FlightID,
		AircraftID:    f.AircraftID,
		DepartureTime: f.DepartureTime.UTC(),
		ArrivalTime:   f.ArrivalTime.UTC(),
	}
}

func (f *Form) UpdateRequest() apiclient.UpdateScheduleRequest {
	return apiclient.UpdateScheduleRequest{
		AircraftID:    f.AircraftID,
		DepartureTime: f.DepartureTime.UTC(),
		ArrivalTime:   f.ArrivalTime.UTC(),
		Status:        f.Status,
	}
}
