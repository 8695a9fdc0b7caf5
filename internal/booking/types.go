package booking

import (
	"errors"
	"time"

	"travel/pkg/apiclient"
	"travel/pkg/format"
)

type BookingType string

const (
	TypeFlight BookingType = "flight"
	TypeHotel  BookingType = "hotel"
	TypeBoth   BookingType = "both"
)

func (t BookingType) Valid() bool {
	return t == TypeFlight || t == TypeHotel || t == TypeBoth
}

type Step string

const (
	StepSelection    Step = "selection"
	StepPassengers   Step = "passengers"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

var stepOrder = []Step{StepSelection, StepPassengers, StepPayment, StepConfirmation}

func (s Step) index() int {
	for i, st := range stepOrder {
		if st == s {
			return i
		}
	}
	return -1
}

func (s Step) Valid() bool {
	return s.index() >= 0
}

var (
	ErrInvalidStep        = errors.New("unknown booking step")
	ErrBackwardStep       = errors.New("booking steps only move forward; reset to start over")
	ErrStepSkipped        = errors.New("booking steps cannot be skipped")
	ErrNotAuthenticated   = errors.New("login required to continue booking")
	ErrIncompleteSelect   = errors.New("selection does not match the booking type")
	ErrCurrencyMismatch   = errors.New("flight and hotel must be priced in the same currency")
	ErrInvalidBookingType = errors.New("unknown booking type")
	ErrFinalStep          = errors.New("booking is already confirmed")
	ErrCheckoutRequired   = errors.New("the confirmation step is only reached by checking out")
	ErrInvalidSelection   = errors.New("selection has a negative amount or an unknown currency")
)

// SelectedFlight is the chosen flight offer. It is replaced wholesale on re-selection.
type SelectedFlight struct {
	AirlineName     string       `json:"airlineName"`
	AirlineCode     string       `json:"airlineCode"`
	FlightNumber    string       `json:"flightNumber"`
	OriginCode      string       `json:"originCode"`
	DestinationCode string       `json:"destinationCode"`
	DepartureTime   time.Time    `json:"departureTime"`
	ArrivalTime     time.Time    `json:"arrivalTime"`
	DurationMinutes int          `json:"durationMinutes"`
	SeatClass       string       `json:"seatClass"`
	Price           format.Money `json:"price"`
	ScheduleID      string       `json:"scheduleId,omitempty"`
	FareID          string       `json:"fareId,omitempty"`
}

// SelectedHotel is the chosen hotel room. Nights is derived from the stay dates when zero.
type SelectedHotel struct {
	HotelID       string       `json:"hotelId"`
	HotelName     string       `json:"hotelName"`
	Address       string       `json:"address,omitempty"`
	City          string       `json:"city,omitempty"`
	Country       string       `json:"country,omitempty"`
	RoomTypeID    string       `json:"roomTypeId"`
	RoomName      string       `json:"roomName"`
	PricePerNight format.Money `json:"pricePerNight"`
	Rooms         int          `json:"rooms"`
	Nights        int          `json:"nights"`
	CheckIn       *time.Time   `json:"checkIn,omitempty"`
	CheckOut      *time.Time   `json:"checkOut,omitempty"`
	Amenities     []string     `json:"amenities,omitempty"`
}

// State is one booking session's selection and checkout progress.
type State struct {
	SelectedFlight      *SelectedFlight                `json:"selectedFlight,omitempty"`
	SelectedHotel       *SelectedHotel                 `json:"selectedHotel,omitempty"`
	BookingTypeOverride BookingType                    `json:"bookingTypeOverride,omitempty"`
	Step                Step                           `json:"step"`
	Passengers          []apiclient.Passenger          `json:"passengers,omitempty"`
	Contact             *apiclient.Contact             `json:"contact,omitempty"`
	PaymentMethod       *apiclient.PaymentMethod       `json:"paymentMethod,omitempty"`
	Confirmation        *apiclient.BookingConfirmation `json:"confirmation,omitempty"`
	PendingCheckout     *PendingCheckout               `json:"pendingCheckout,omitempty"`
}

// PendingCheckout is the idempotency key of a submitted order. It is reused
// while the order is unchanged, so a retry after a lost response replays the
// backend's answer instead of booking twice.
type PendingCheckout struct {
	Key    string `json:"key"`
	Digest string `json:"digest"`
}

func NewState() *State {
	return &State{Step: StepSelection}
}
