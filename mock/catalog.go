package main

import (
	"net/http"
	"sync"
)

type Airline struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Country string `json:"country,omitempty"`
	LogoURL string `json:"logoUrl,omitempty"`
	Active  bool   `json:"active"`
}

func (a *Airline) GetID() string   { return a.ID }
func (a *Airline) SetID(id string) { a.ID = id }
func (a *Airline) Matches(search string) bool {
	return contains(a.Name, search) || contains(a.Code, search)
}

type Hotel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	StarRating  int    `json:"starRating"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

func (h *Hotel) GetID() string   { return h.ID }
func (h *Hotel) SetID(id string) { h.ID = id }
func (h *Hotel) Matches(search string) bool {
	return contains(h.Name, search) || contains(h.City, search)
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

func seedAirlines() []*Airline {
	return []*Airline{
		{Name: "Vietnam Airlines", Code: "VN", Country: "Vietnam", Active: true},
		{Name: "VietJet Air", Code: "VJ", Country: "Vietnam", Active: true},
		{Name: "Bamboo Airways", Code: "QH", Country: "Vietnam", Active: true},
		{Name: "Garuda Indonesia", Code: "GA", Country: "Indonesia", Active: true},
	}
}

func seedHotels() []*Hotel {
	return []*Hotel{
		{Name: "Riverside Saigon", Address: "12 Ton Duc Thang", City: "Ho Chi Minh City", Country: "Vietnam", StarRating: 4, Active: true},
		{Name: "Old Quarter Inn", Address: "5 Hang Bac", City: "Hanoi", Country: "Vietnam", StarRating: 3, Active: true},
	}
}

func seedRoomTypes() []RoomType {
	return []RoomType{
		{ID: "1", HotelID: "1", Name: "Deluxe Room", Type: "DOUBLE", BasePrice: 1500000, Currency: "VND", MaxOccupancy: 2, Available: 8},
		{ID: "2", HotelID: "1", Name: "River Suite", Type: "SUITE", BasePrice: 3200000, Currency: "VND", MaxOccupancy: 3, Available: 2},
		{ID: "3", HotelID: "2", Name: "Standard Twin", Type: "TWIN", BasePrice: 900000, Currency: "VND", MaxOccupancy: 2, Available: 5},
	}
}

type roomTypes struct {
	mu    sync.Mutex
	items []RoomType
}

func newRoomTypes(seed []RoomType) *roomTypes {
	return &roomTypes{items: seed}
}

func (rt *roomTypes) list(w http.ResponseWriter, r *http.Request) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	out := make([]RoomType, 0)
	for _, item := range rt.items {
		if item.HotelID == r.PathValue("id") {
			out = append(out, item)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (rt *roomTypes) get(w http.ResponseWriter, r *http.Request) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	for _, item := range rt.items {
		if item.HotelID == r.PathValue("id") && item.ID == r.PathValue("roomTypeId") {
			writeJSON(w, http.StatusOK, item)
			return
		}
	}
	writeError(w, http.StatusNotFound, "room type not found")
}
