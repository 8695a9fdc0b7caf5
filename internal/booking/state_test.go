package booking

import (
	"testing"
	"time"

	"travel/pkg/format"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vnFlight() *SelectedFlight {
	return &SelectedFlight{
		AirlineName:     "Vietnam Airlines",
		AirlineCode:     "VN",
		FlightNumber:    "VN123",
		OriginCode:      "SGN",
		DestinationCode: "HAN",
		DurationMinutes: 125,
		SeatClass:       "ECONOMY",
		Price:           format.Money{Amount: 2_500_000, Currency: "VND"},
	}
}

func vnHotel() *SelectedHotel {
	return &SelectedHotel{
		HotelID:       "h1",
		HotelName:     "Lotus Hotel",
		RoomTypeID:    "r1",
		RoomName:      "Deluxe",
		PricePerNight: format.Money{Amount: 1_500_000, Currency: "VND"},
		Rooms:         2,
		Nights:        3,
	}
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 14, 0, 0, 0, time.UTC)
	return &t
}

func TestTotalAmount(t *testing.T) {
	t.Run("flight and hotel", func(t *testing.T) {
		st := NewState()
		require.NoError(t, st.SetSelectedFlight(vnFlight()))
		require.NoError(t, st.SetSelectedHotel(vnHotel()))

		assert.Equal(t, format.Money{Amount: 11_500_000, Currency: "VND"}, st.TotalAmount())
	})

	t.Run("hotel only", func(t *testing.T) {
		st := NewState()
		require.NoError(t, st.SetSelectedHotel(vnHotel()))

		assert.Equal(t, int64(9_000_000), st.TotalAmount().Amount)
	})

	t.Run("nothing selected", func(t *testing.T) {
		assert.True(t, NewState().TotalAmount().IsZero())
	})

	t.Run("type override drops the excluded line", func(t *testing.T) {
		st := NewState()
		require.NoError(t, st.SetSelectedFlight(vnFlight()))
		require.NoError(t, st.SetSelectedHotel(vnHotel()))

		require.NoError(t, st.SetBookingType(TypeHotel))
		assert.Equal(t, int64(9_000_000), st.TotalAmount().Amount)

		require.NoError(t, st.SetBookingType(TypeFlight))
		assert.Equal(t, int64(2_500_000), st.TotalAmount().Amount)
	})

	t.Run("recomputed after re-selection", func(t *testing.T) {
		st := NewState()
		require.NoError(t, st.SetSelectedHotel(vnHotel()))
		h := vnHotel()
		h.Rooms = 1
		require.NoError(t, st.SetSelectedHotel(h))

		assert.Equal(t, int64(4_500_000), st.TotalAmount().Amount)
	})
}

func TestNights(t *testing.T) {
	assert.Equal(t, 3, Nights(date(2026, 5, 1), date(2026, 5, 4)))
	assert.Equal(t, 1, Nights(nil, date(2026, 5, 4)))
	assert.Equal(t, 1, Nights(date(2026, 5, 4), date(2026, 5, 4)))
	assert.Equal(t, 1, Nights(date(2026, 5, 4), date(2026, 5, 1)))

	h := vnHotel()
	h.Nights = 0
	h.Rooms = 0
	h.CheckIn, h.CheckOut = date(2026, 5, 1), date(2026, 5, 3)
	assert.Equal(t, 2, h.EffectiveNights())
	assert.Equal(t, 1, h.EffectiveRooms())
}

func TestSelectionIsCopied(t *testing.T) {
	st := NewState()
	f := vnFlight()
	require.NoError(t, st.SetSelectedFlight(f))
	f.Price.Amount = 1

	assert.Equal(t, int64(2_500_000), st.SelectedFlight.Price.Amount)
}

func TestCurrencyMismatch(t *testing.T) {
	st := NewState()
	require.NoError(t, st.SetSelectedFlight(vnFlight()))

	h := vnHotel()
	h.PricePerNight.Currency = "USD"
	assert.ErrorIs(t, st.SetSelectedHotel(h), ErrCurrencyMismatch)
	assert.Nil(t, st.SelectedHotel)
}

func TestInvalidSelection(t *testing.T) {
	st := NewState()

	f := vnFlight()
	f.Price.Amount = -1
	assert.ErrorIs(t, st.SetSelectedFlight(f), ErrInvalidSelection)

	f = vnFlight()
	f.Price.Currency = "XYZ1"
	assert.ErrorIs(t, st.SetSelectedFlight(f), ErrInvalidSelection)

	h := vnHotel()
	h.Rooms = -2
	assert.ErrorIs(t, st.SetSelectedHotel(h), ErrInvalidSelection)

	assert.Nil(t, st.SelectedFlight)
	assert.Nil(t, st.SelectedHotel)
}

func TestBookingType(t *testing.T) {
	st := NewState()
	assert.Equal(t, TypeFlight, st.BookingType())

	require.NoError(t, st.SetSelectedHotel(vnHotel()))
	assert.Equal(t, TypeHotel, st.BookingType())

	require.NoError(t, st.SetSelectedFlight(vnFlight()))
	assert.Equal(t, TypeBoth, st.BookingType())

	require.NoError(t, st.SetBookingType(TypeFlight))
	assert.Equal(t, TypeFlight, st.BookingType())

	require.NoError(t, st.SetBookingType(""))
	assert.Equal(t, TypeBoth, st.BookingType())

	assert.ErrorIs(t, st.SetBookingType("cruise"), ErrInvalidBookingType)
}

func TestCanProceed(t *testing.T) {
	st := NewState()
	assert.False(t, st.CanProceed())

	require.NoError(t, st.SetBookingType(TypeBoth))
	require.NoError(t, st.SetSelectedFlight(vnFlight()))
	assert.False(t, st.CanProceed())

	require.NoError(t, st.SetSelectedHotel(vnHotel()))
	assert.True(t, st.CanProceed())
}

func TestSetStep(t *testing.T) {
	t.Run("leaving selection requires login", func(t *testing.T) {
		st := NewState()
		assert.ErrorIs(t, st.SetStep(StepPassengers, false), ErrNotAuthenticated)
		assert.Equal(t, StepSelection, st.Step)
	})

	t.Run("one step forward", func(t *testing.T) {
		st := NewState()
		require.NoError(t, st.SetStep(StepPassengers, true))
		require.NoError(t, st.SetStep(StepPayment, false))
		assert.Equal(t, StepPayment, st.Step)
	})

	t.Run("same step is a no-op", func(t *testing.T) {
		st := NewState()
		require.NoError(t, st.SetStep(StepSelection, false))
		assert.Equal(t, StepSelection, st.Step)
	})

	t.Run("backward refused", func(t *testing.T) {
		st := NewState()
		require.NoError(t, st.SetStep(StepPassengers, true))
		assert.ErrorIs(t, st.SetStep(StepSelection, true), ErrBackwardStep)
	})

	t.Run("skipping refused", func(t *testing.T) {
		st := NewState()
		assert.ErrorIs(t, st.SetStep(StepPayment, true), ErrStepSkipped)
	})

	t.Run("confirmation only through checkout", func(t *testing.T) {
		st := NewState()
		require.NoError(t, st.SetStep(StepPassengers, true))
		require.NoError(t, st.SetStep(StepPayment, true))
		assert.ErrorIs(t, st.SetStep(StepConfirmation, true), ErrCheckoutRequired)
		assert.Equal(t, StepPayment, st.Step)
	})

	t.Run("unknown step", func(t *testing.T) {
		assert.ErrorIs(t, NewState().SetStep("shipping", true), ErrInvalidStep)
	})
}

func TestAdvance(t *testing.T) {
	st := NewState()
	assert.ErrorIs(t, st.Advance(true), ErrIncompleteSelect)

	require.NoError(t, st.SetSelectedFlight(vnFlight()))
	assert.ErrorIs(t, st.Advance(false), ErrNotAuthenticated)

	require.NoError(t, st.Advance(true))
	require.NoError(t, st.Advance(true))
	assert.ErrorIs(t, st.Advance(true), ErrCheckoutRequired)
	assert.Equal(t, StepPayment, st.Step)

	st.Step = StepConfirmation
	assert.ErrorIs(t, st.Advance(true), ErrFinalStep)
	assert.ErrorIs(t, st.SetSelectedFlight(vnFlight()), ErrFinalStep)
}

func TestReset(t *testing.T) {
	st := NewState()
	require.NoError(t, st.SetSelectedFlight(vnFlight()))
	require.NoError(t, st.SetSelectedHotel(vnHotel()))
	require.NoError(t, st.SetBookingType(TypeHotel))
	require.NoError(t, st.Advance(true))

	st.Reset()

	assert.Nil(t, st.SelectedFlight)
	assert.Nil(t, st.SelectedHotel)
	assert.Equal(t, StepSelection, st.Step)
	assert.Equal(t, TypeFlight, st.BookingType())
	assert.True(t, st.TotalAmount().IsZero())
}
