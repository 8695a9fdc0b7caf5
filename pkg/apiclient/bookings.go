package apiclient

import (
	"context"
	"net/http"
	"time"
)

type Passenger struct {
	Title          string `json:"title" validate:"required,oneof=MR MRS MS MSTR MISS"`
	FirstName      string `json:"firstName" validate:"required,max=50"`
	LastName       string `json:"lastName" validate:"required,max=50"`
	DateOfBirth    string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Nationality    string `json:"nationality" validate:"required,len=2"`
	DocumentNumber string `json:"documentNumber,omitempty" validate:"omitempty,max=20"`
}

type Contact struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone"`
}

// PaymentMethod carries the opaque token produced by the payment widget.
type PaymentMethod struct {
	Type  string `json:"type" validate:"required,oneof=CARD WALLET"`
	Token string `json:"token" validate:"required"`
}

type FlightLine struct {
	ScheduleID   string `json:"scheduleId,omitempty"`
	FareID       string `json:"fareId,omitempty"`
	FlightNumber string `json:"flightNumber"`
	SeatClass    string `json:"seatClass"`
	Price        int64  `json:"price"`
}

type HotelLine struct {
	HotelID       string `json:"hotelId"`
	RoomTypeID    string `json:"roomTypeId"`
	CheckIn       string `json:"checkIn,omitempty"`
	CheckOut      string `json:"checkOut,omitempty"`
	Rooms         int    `json:"rooms"`
	Nights        int    `json:"nights"`
	PricePerNight int64  `json:"pricePerNight"`
}

type CreateBookingRequest struct {
	BookingType   string        `json:"bookingType"`
	Flight        *FlightLine   `json:"flight,omitempty"`
	Hotel         *HotelLine    `json:"hotel,omitempty"`
	Passengers    []Passenger   `json:"passengers"`
	Contact       Contact       `json:"contact"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	TotalAmount   int64         `json:"totalAmount"`
	Currency      string        `json:"currency"`
}

type BookingConfirmation struct {
	BookingID   string    `json:"bookingId"`
	Reference   string    `json:"reference"`
	Status      string    `json:"status"`
	TotalAmount int64     `json:"totalAmount"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"createdAt"`
}

type BookingsClient struct {
	c *Client
}

func NewBookingsClient(c *Client) *BookingsClient {
	return &BookingsClient{c: c}
}

// Create submits a checkout. The idempotency key lets the backend drop a replayed submission.
func (b *BookingsClient) Create(ctx context.Context, in CreateBookingRequest, idempotencyKey string) (*BookingConfirmation, error) {
	var out BookingConfirmation
	err := b.c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/api/v1/bookings",
		resource: "bookings",
		body:     in,
		headers:  map[string]string{"Idempotency-Key": idempotencyKey},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
