package booking

import (
	"time"

	"travel/pkg/format"
)

// Nights counts whole nights between check-in and check-out, defaulting to 1
// when either date is missing or the range is empty.
func Nights(checkIn, checkOut *time.Time) int {
	if checkIn == nil || checkOut == nil {
		return 1
	}
	in := truncateDay(*checkIn)
	out := truncateDay(*checkOut)
	n := int(out.Sub(in).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Subtotal is pricePerNight × nights × rooms.
func Subtotal(pricePerNight format.Money, nights, rooms int) format.Money {
	return pricePerNight.Times(int64(nights) * int64(rooms))
}

// EffectiveNights is the explicit nights count, else the one derived from the stay dates.
func (h *SelectedHotel) EffectiveNights() int {
	if h.Nights > 0 {
		return h.Nights
	}
	return Nights(h.CheckIn, h.CheckOut)
}

func (h *SelectedHotel) EffectiveRooms() int {
	if h.Rooms > 0 {
		return h.Rooms
	}
	return 1
}

func (h *SelectedHotel) Subtotal() format.Money {
	return Subtotal(h.PricePerNight, h.EffectiveNights(), h.EffectiveRooms())
}

// TotalAmount sums the lines the booking type includes: the flight price and
// the hotel subtotal. A selection the type excludes is kept but not charged.
func (s *State) TotalAmount() format.Money {
	var total format.Money
	bt := s.BookingType()
	if s.SelectedFlight != nil && bt != TypeHotel {
		total = total.Add(s.SelectedFlight.Price)
	}
	if s.SelectedHotel != nil && bt != TypeFlight {
		total = total.Add(s.SelectedHotel.Subtotal())
	}
	return total
}
