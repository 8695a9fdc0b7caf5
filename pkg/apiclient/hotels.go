package apiclient

import (
	"context"
	"net/http"

	"travel/pkg/format"
)

type Hotel struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	StarRating  int       `json:"starRating"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	Amenities   []Amenity `json:"amenities,omitempty"`
}

type HotelInput struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Address     string   `json:"address" validate:"required,max=300"`
	City        string   `json:"city" validate:"required,max=100"`
	Country     string   `json:"country" validate:"required,max=100"`
	StarRating  int      `json:"starRating" validate:"required,min=1,max=5"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	AmenityIDs  []string `json:"amenityIds,omitempty"`
	Active      bool     `json:"active"`
}

type RoomType struct {
	ID           string `json:"id"`
	HotelID      string `json:"hotelId"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	BasePrice    int64  `json:"basePrice"`
	Currency     string `json:"currency"`
	MaxOccupancy int    `json:"maxOccupancy"`
	Available    int    `json:"availableRooms"`
}

func (r RoomType) Price() format.Money {
	return format.Money{Amount: r.BasePrice, Currency: r.Currency}
}

type HotelsClient struct {
	crud[Hotel, HotelInput]
}

func NewHotelsClient(c *Client) *HotelsClient {
	return &HotelsClient{crud[Hotel, HotelInput]{c: c, resource: "hotels", base: "/api/v1/hotels"}}
}

func (h *HotelsClient) RoomTypes(ctx context.Context, hotelID string) ([]RoomType, error) {
	var out []RoomType
	err := h.c.do(ctx, request{
		method:   http.MethodGet,
		path:     h.base + path(hotelID, "room-types"),
		resource: "hotels.room_types",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (h *HotelsClient) RoomType(ctx context.Context, hotelID, roomTypeID string) (*RoomType, error) {
	var out RoomType
	err := h.c.do(ctx, request{
		method:   http.MethodGet,
		path:     h.base + path(hotelID, "room-types", roomTypeID),
		resource: "hotels.room_types",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
