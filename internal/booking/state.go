package booking

import (
	"strings"

	"travel/pkg/format"

	"golang.org/x/text/currency"
)

// BookingType is the explicit override when set, otherwise derived from the selections.
func (s *State) BookingType() BookingType {
	if s.BookingTypeOverride != "" {
		return s.BookingTypeOverride
	}
	switch {
	case s.SelectedFlight != nil && s.SelectedHotel != nil:
		return TypeBoth
	case s.SelectedHotel != nil:
		return TypeHotel
	default:
		return TypeFlight
	}
}

// CanProceed reports whether the selections satisfy the booking type.
func (s *State) CanProceed() bool {
	switch s.BookingType() {
	case TypeBoth:
		return s.SelectedFlight != nil && s.SelectedHotel != nil
	case TypeHotel:
		return s.SelectedHotel != nil
	default:
		return s.SelectedFlight != nil
	}
}

// SetSelectedFlight replaces the flight selection; nil clears it.
func (s *State) SetSelectedFlight(f *SelectedFlight) error {
	if s.Step == StepConfirmation {
		return ErrFinalStep
	}
	if f != nil && !validPrice(f.Price) {
		return ErrInvalidSelection
	}
	if f != nil && s.SelectedHotel != nil && !sameCurrency(f.Price.Currency, s.SelectedHotel.PricePerNight.Currency) {
		return ErrCurrencyMismatch
	}
	if f != nil {
		copied := *f
		f = &copied
	}
	s.SelectedFlight = f
	return nil
}

// SetSelectedHotel replaces the hotel selection; nil clears it.
func (s *State) SetSelectedHotel(h *SelectedHotel) error {
	if s.Step == StepConfirmation {
		return ErrFinalStep
	}
	if h != nil && (!validPrice(h.PricePerNight) || h.Rooms < 0 || h.Nights < 0) {
		return ErrInvalidSelection
	}
	if h != nil && s.SelectedFlight != nil && !sameCurrency(h.PricePerNight.Currency, s.SelectedFlight.Price.Currency) {
		return ErrCurrencyMismatch
	}
	if h != nil {
		copied := *h
		copied.Amenities = append([]string(nil), h.Amenities...)
		h = &copied
	}
	s.SelectedHotel = h
	return nil
}

// SetBookingType overrides the derived type; an empty value removes the override.
func (s *State) SetBookingType(t BookingType) error {
	if t != "" && !t.Valid() {
		return ErrInvalidBookingType
	}
	s.BookingTypeOverride = t
	return nil
}

// SetStep moves to step. Only the current step or the one right after it is accepted,
// and leaving selection requires an authenticated user. Confirmation is entered by
// Checkout alone. Completion of the earlier steps is not checked here.
func (s *State) SetStep(step Step, authenticated bool) error {
	target := step.index()
	if target < 0 {
		return ErrInvalidStep
	}
	current := s.Step.index()
	switch {
	case target == current:
		return nil
	case step == StepConfirmation:
		return ErrCheckoutRequired
	case target < current:
		return ErrBackwardStep
	case target > current+1:
		return ErrStepSkipped
	}
	if s.Step == StepSelection && !authenticated {
		return ErrNotAuthenticated
	}
	s.Step = step
	return nil
}

// Advance moves one step forward. Leaving selection also requires CanProceed,
// and payment only advances through Checkout.
func (s *State) Advance(authenticated bool) error {
	current := s.Step.index()
	if current < 0 {
		return ErrInvalidStep
	}
	if current == len(stepOrder)-1 {
		return ErrFinalStep
	}
	if s.Step == StepSelection && !s.CanProceed() {
		return ErrIncompleteSelect
	}
	return s.SetStep(stepOrder[current+1], authenticated)
}

// Reset clears everything and returns to the selection step.
func (s *State) Reset() {
	*s = State{Step: StepSelection}
}

func validPrice(m format.Money) bool {
	if m.Amount < 0 {
		return false
	}
	_, err := currency.ParseISO(m.Currency)
	return err == nil
}

func sameCurrency(a, b string) bool {
	return a == "" || b == "" || strings.EqualFold(a, b)
}
