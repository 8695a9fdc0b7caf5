package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"travel/pkg/apiclient"
	"travel/pkg/cache"
	"travel/pkg/logger"
	"travel/pkg/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBookings struct {
	mock.Mock
	gate chan struct{}
}

func (m *mockBookings) Create(ctx context.Context, in apiclient.CreateBookingRequest, key string) (*apiclient.BookingConfirmation, error) {
	if m.gate != nil {
		<-m.gate
	}
	args := m.Called(ctx, in, key)
	conf, _ := args.Get(0).(*apiclient.BookingConfirmation)
	return conf, args.Error(1)
}

func newTestService(b BookingCreator) *Service {
	return newTestServiceWithCache(cache.NewMemoryCache(), b)
}

func newTestServiceWithCache(c cache.Cache, b BookingCreator) *Service {
	s := NewService(c, b, validate.New(), time.Hour, logger.Nop())
	var n atomic.Int64
	s.newKey = func() string { return fmt.Sprintf("key-%d", n.Add(1)) }
	return s
}

// flakyCache fails writes while failSets is set.
type flakyCache struct {
	cache.Cache
	failSets atomic.Bool
}

func (f *flakyCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if f.failSets.Load() {
		return errors.New("cache unavailable")
	}
	return f.Cache.Set(ctx, key, value, ttl)
}

var (
	passenger = apiclient.Passenger{Title: "MR", FirstName: "An", LastName: "Nguyen", DateOfBirth: "1990-04-02", Nationality: "VN"}
	contact   = apiclient.Contact{FullName: "An Nguyen", Email: "an@example.com", Phone: "+84901234567"}
	card      = apiclient.PaymentMethod{Type: "CARD", Token: "tok_123"}
)

// readyForCheckout walks a session to the payment step with everything filled in.
func readyForCheckout(t *testing.T, s *Service, sid string) {
	t.Helper()
	ctx := context.Background()
	_, err := s.SelectFlight(ctx, sid, vnFlight())
	require.NoError(t, err)
	_, err = s.SelectHotel(ctx, sid, vnHotel())
	require.NoError(t, err)
	_, err = s.Advance(ctx, sid, true)
	require.NoError(t, err)
	_, err = s.SetPassengers(ctx, sid, []apiclient.Passenger{passenger})
	require.NoError(t, err)
	_, err = s.SetContact(ctx, sid, contact)
	require.NoError(t, err)
	_, err = s.SetPaymentMethod(ctx, sid, card)
	require.NoError(t, err)
	_, err = s.Advance(ctx, sid, true)
	require.NoError(t, err)
}

func TestServicePersistsPerSession(t *testing.T) {
	s := newTestService(&mockBookings{})
	ctx := context.Background()

	_, err := s.SelectFlight(ctx, "a", vnFlight())
	require.NoError(t, err)

	a, err := s.Get(ctx, "a")
	require.NoError(t, err)
	b, err := s.Get(ctx, "b")
	require.NoError(t, err)

	assert.NotNil(t, a.SelectedFlight)
	assert.Nil(t, b.SelectedFlight)
	assert.Equal(t, StepSelection, b.Step)
}

func TestServiceFailedMutationKeepsState(t *testing.T) {
	s := newTestService(&mockBookings{})
	ctx := context.Background()

	_, err := s.SelectFlight(ctx, "a", vnFlight())
	require.NoError(t, err)
	_, err = s.SetStep(ctx, "a", StepPassengers, false)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	st, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, StepSelection, st.Step)
}

func TestSetPassengersValidation(t *testing.T) {
	s := newTestService(&mockBookings{})

	bad := passenger
	bad.FirstName = ""
	_, err := s.SetPassengers(context.Background(), "a", []apiclient.Passenger{passenger, bad})

	var fe *validate.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "is required", fe.Fields["passengers[1].firstName"])

	_, err = s.SetPassengers(context.Background(), "a", nil)
	require.ErrorAs(t, err, &fe)
	assert.True(t, fe.Has("passengers"))
}

func TestSetContactValidation(t *testing.T) {
	s := newTestService(&mockBookings{})

	bad := contact
	bad.Email = "not-an-email"
	_, err := s.SetContact(context.Background(), "a", bad)

	var fe *validate.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "must be a valid email", fe.Fields["email"])
}

func TestCheckout(t *testing.T) {
	t.Run("success stores confirmation", func(t *testing.T) {
		m := &mockBookings{}
		s := newTestService(m)
		readyForCheckout(t, s, "a")

		m.On("Create", mock.Anything, mock.MatchedBy(func(r apiclient.CreateBookingRequest) bool {
			return r.BookingType == "both" &&
				r.TotalAmount == 11_500_000 &&
				r.Currency == "VND" &&
				r.Hotel.Nights == 3 && r.Hotel.Rooms == 2 &&
				r.Flight.FlightNumber == "VN123" &&
				r.PaymentMethod.Token == "tok_123"
		}), "key-1").Return(&apiclient.BookingConfirmation{BookingID: "b1", Reference: "PNR123"}, nil)

		st, err := s.Checkout(context.Background(), "a")
		require.NoError(t, err)
		assert.Equal(t, StepConfirmation, st.Step)
		assert.Equal(t, "PNR123", st.Confirmation.Reference)
		m.AssertExpectations(t)
	})

	t.Run("backend failure leaves state unchanged", func(t *testing.T) {
		m := &mockBookings{}
		s := newTestService(m)
		readyForCheckout(t, s, "a")

		m.On("Create", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &apiclient.APIError{Status: 409, Message: "Room no longer available"})

		_, err := s.Checkout(context.Background(), "a")
		assert.EqualError(t, err, "Room no longer available")

		st, err := s.Get(context.Background(), "a")
		require.NoError(t, err)
		assert.Equal(t, StepPayment, st.Step)
		assert.Nil(t, st.Confirmation)
	})

	t.Run("total matches the submitted lines", func(t *testing.T) {
		m := &mockBookings{}
		s := newTestService(m)
		readyForCheckout(t, s, "a")
		_, err := s.SetBookingType(context.Background(), "a", TypeHotel)
		require.NoError(t, err)

		var sent apiclient.CreateBookingRequest
		m.On("Create", mock.Anything, mock.Anything, "key-1").
			Run(func(args mock.Arguments) { sent = args.Get(1).(apiclient.CreateBookingRequest) }).
			Return(&apiclient.BookingConfirmation{Reference: "PNR7"}, nil)

		_, err = s.Checkout(context.Background(), "a")
		require.NoError(t, err)

		assert.Equal(t, "hotel", sent.BookingType)
		assert.Nil(t, sent.Flight)
		require.NotNil(t, sent.Hotel)
		lines := sent.Hotel.PricePerNight * int64(sent.Hotel.Rooms) * int64(sent.Hotel.Nights)
		assert.Equal(t, lines, sent.TotalAmount)
		assert.Equal(t, int64(9_000_000), sent.TotalAmount)
	})

	t.Run("retry reuses the idempotency key", func(t *testing.T) {
		m := &mockBookings{}
		s := newTestService(m)
		readyForCheckout(t, s, "a")

		m.On("Create", mock.Anything, mock.Anything, "key-1").
			Return(nil, &apiclient.APIError{Status: 504, Message: "Gateway timeout"}).Once()
		m.On("Create", mock.Anything, mock.Anything, "key-1").
			Return(&apiclient.BookingConfirmation{Reference: "PNR1"}, nil).Once()

		_, err := s.Checkout(context.Background(), "a")
		require.Error(t, err)
		st, err := s.Checkout(context.Background(), "a")
		require.NoError(t, err)

		assert.Equal(t, "PNR1", st.Confirmation.Reference)
		assert.Nil(t, st.PendingCheckout)
		m.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("changed order gets a new key", func(t *testing.T) {
		m := &mockBookings{}
		s := newTestService(m)
		readyForCheckout(t, s, "a")

		m.On("Create", mock.Anything, mock.Anything, "key-1").
			Return(nil, &apiclient.APIError{Status: 409, Message: "Room no longer available"}).Once()
		m.On("Create", mock.Anything, mock.Anything, "key-2").
			Return(&apiclient.BookingConfirmation{Reference: "PNR2"}, nil).Once()

		_, err := s.Checkout(context.Background(), "a")
		require.Error(t, err)

		other := contact
		other.FullName = "Binh Tran"
		_, err = s.SetContact(context.Background(), "a", other)
		require.NoError(t, err)

		st, err := s.Checkout(context.Background(), "a")
		require.NoError(t, err)
		assert.Equal(t, "PNR2", st.Confirmation.Reference)
		m.AssertExpectations(t)
	})

	t.Run("accepted booking that was not stored is replayed with the same key", func(t *testing.T) {
		c := &flakyCache{Cache: cache.NewMemoryCache()}
		m := &mockBookings{}
		s := newTestServiceWithCache(c, m)
		readyForCheckout(t, s, "a")

		conf := &apiclient.BookingConfirmation{BookingID: "b1", Reference: "PNR9"}
		m.On("Create", mock.Anything, mock.Anything, "key-1").
			Run(func(mock.Arguments) { c.failSets.Store(true) }).
			Return(conf, nil).Once()
		m.On("Create", mock.Anything, mock.Anything, "key-1").
			Return(conf, nil).Once()

		_, err := s.Checkout(context.Background(), "a")
		require.Error(t, err)

		c.failSets.Store(false)
		st, err := s.Get(context.Background(), "a")
		require.NoError(t, err)
		assert.Equal(t, StepPayment, st.Step)
		require.NotNil(t, st.PendingCheckout)
		assert.Equal(t, "key-1", st.PendingCheckout.Key)

		st, err = s.Checkout(context.Background(), "a")
		require.NoError(t, err)
		assert.Equal(t, "PNR9", st.Confirmation.Reference)
		m.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("requires payment step", func(t *testing.T) {
		s := newTestService(&mockBookings{})
		_, err := s.Checkout(context.Background(), "a")
		assert.ErrorIs(t, err, ErrNotAtPayment)
	})

	t.Run("duplicate submission refused", func(t *testing.T) {
		m := &mockBookings{gate: make(chan struct{})}
		s := newTestService(m)
		readyForCheckout(t, s, "a")
		m.On("Create", mock.Anything, mock.Anything, mock.Anything).
			Return(&apiclient.BookingConfirmation{Reference: "PNR1"}, nil).Once()

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Checkout(context.Background(), "a")
		}()

		require.Eventually(t, func() bool {
			_, busy := s.submitting.Load("a")
			return busy
		}, time.Second, 5*time.Millisecond)

		_, err := s.Checkout(context.Background(), "a")
		assert.ErrorIs(t, err, ErrSubmitInProgress)

		close(m.gate)
		wg.Wait()
		m.AssertNumberOfCalls(t, "Create", 1)
	})
}

func TestSessionLocksAreReleased(t *testing.T) {
	s := newTestService(&mockBookings{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Get(ctx, "x")
			_, _ = s.SetBookingType(ctx, fmt.Sprintf("sid-%d", i%5), TypeHotel)
		}()
	}
	wg.Wait()

	assert.Zero(t, s.locks.len())
}

func TestSessionLocksSerialize(t *testing.T) {
	l := newSessionLocks()

	var (
		wg      sync.WaitGroup
		inside  atomic.Int32
		overlap atomic.Bool
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.lock("a")
			if inside.Add(1) > 1 {
				overlap.Store(true)
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}
	wg.Wait()

	assert.False(t, overlap.Load())
	assert.Zero(t, l.len())
}
