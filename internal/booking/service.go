package booking

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"travel/pkg/apiclient"
	"travel/pkg/cache"
	"travel/pkg/logger"
	"travel/pkg/validate"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

var (
	ErrSubmitInProgress = errors.New("a checkout for this booking is already being submitted")
	ErrNotAtPayment     = errors.New("checkout is only possible from the payment step")
	ErrNoPassengers     = errors.New("at least one passenger is required")
	ErrNoContact        = errors.New("contact details are required")
	ErrNoPaymentMethod  = errors.New("a payment method is required")
)

// BookingCreator submits a finished booking to the backend.
type BookingCreator interface {
	Create(ctx context.Context, in apiclient.CreateBookingRequest, idempotencyKey string) (*apiclient.BookingConfirmation, error)
}

// Service keeps one State per booking session in the cache.
type Service struct {
	cache     cache.Cache
	bookings  BookingCreator
	validator *validate.Validator
	ttl       time.Duration
	logger    logger.Logger
	newKey    func() string

	locks      *sessionLocks
	submitting sync.Map // session id -> struct{}
}

func NewService(c cache.Cache, bookings BookingCreator, v *validate.Validator, ttl time.Duration, log logger.Logger) *Service {
	return &Service{
		cache:     c,
		bookings:  bookings,
		validator: v,
		ttl:       ttl,
		logger:    log,
		newKey:    uuid.NewString,
		locks:     newSessionLocks(),
	}
}

func stateKey(sid string) string {
	return "booking:state:" + sid
}

func (s *Service) load(ctx context.Context, sid string) (*State, error) {
	st := NewState()
	found, err := cache.GetJSON(ctx, s.cache, stateKey(sid), st)
	if err != nil {
		return nil, fmt.Errorf("load booking state: %w", err)
	}
	if !found {
		return NewState(), nil
	}
	if st.Step == "" {
		st.Step = StepSelection
	}
	return st, nil
}

func (s *Service) save(ctx context.Context, sid string, st *State) error {
	if err := cache.SetJSON(ctx, s.cache, stateKey(sid), st, s.ttl); err != nil {
		return fmt.Errorf("save booking state: %w", err)
	}
	return nil
}

// mutate runs fn against the session's state and persists it only when fn succeeds.
func (s *Service) mutate(ctx context.Context, sid string, fn func(*State) error) (*State, error) {
	unlock := s.locks.lock(sid)
	defer unlock()

	st, err := s.load(ctx, sid)
	if err != nil {
		return nil, err
	}
	if err := fn(st); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sid, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Service) Get(ctx context.Context, sid string) (*State, error) {
	return s.load(ctx, sid)
}

func (s *Service) SelectFlight(ctx context.Context, sid string, f *SelectedFlight) (*State, error) {
	return s.mutate(ctx, sid, func(st *State) error { return st.SetSelectedFlight(f) })
}

func (s *Service) SelectHotel(ctx context.Context, sid string, h *SelectedHotel) (*State, error) {
	return s.mutate(ctx, sid, func(st *State) error { return st.SetSelectedHotel(h) })
}

func (s *Service) SetBookingType(ctx context.Context, sid string, t BookingType) (*State, error) {
	return s.mutate(ctx, sid, func(st *State) error { return st.SetBookingType(t) })
}

func (s *Service) SetStep(ctx context.Context, sid string, step Step, authenticated bool) (*State, error) {
	return s.mutate(ctx, sid, func(st *State) error { return st.SetStep(step, authenticated) })
}

func (s *Service) Advance(ctx context.Context, sid string, authenticated bool) (*State, error) {
	return s.mutate(ctx, sid, func(st *State) error { return st.Advance(authenticated) })
}

func (s *Service) Reset(ctx context.Context, sid string) (*State, error) {
	return s.mutate(ctx, sid, func(st *State) error {
		st.Reset()
		return nil
	})
}

func (s *Service) SetPassengers(ctx context.Context, sid string, passengers []apiclient.Passenger) (*State, error) {
	fe := &validate.FieldErrors{}
	if len(passengers) == 0 {
		fe.Add("passengers", "is required")
	}
	for i := range passengers {
		if err := s.validator.Struct(passengers[i]); err != nil {
			var perr *validate.FieldErrors
			if !errors.As(err, &perr) {
				return nil, err
			}
			for field, msg := range perr.Fields {
				fe.Add(fmt.Sprintf("passengers[%d].%s", i, field), msg)
			}
		}
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, sid, func(st *State) error {
		st.Passengers = append([]apiclient.Passenger(nil), passengers...)
		return nil
	})
}

func (s *Service) SetContact(ctx context.Context, sid string, contact apiclient.Contact) (*State, error) {
	if err := s.validator.Struct(contact); err != nil {
		return nil, err
	}
	return s.mutate(ctx, sid, func(st *State) error {
		st.Contact = &contact
		return nil
	})
}

func (s *Service) SetPaymentMethod(ctx context.Context, sid string, pm apiclient.PaymentMethod) (*State, error) {
	if err := s.validator.Struct(pm); err != nil {
		return nil, err
	}
	return s.mutate(ctx, sid, func(st *State) error {
		st.PaymentMethod = &pm
		return nil
	})
}

// Checkout submits the booking. The state only changes when the backend accepts it.
// The idempotency key is stored before the backend call and reused by retries of
// the same order.
func (s *Service) Checkout(ctx context.Context, sid string) (*State, error) {
	if _, busy := s.submitting.LoadOrStore(sid, struct{}{}); busy {
		return nil, ErrSubmitInProgress
	}
	defer s.submitting.Delete(sid)

	unlock := s.locks.lock(sid)
	defer unlock()

	st, err := s.load(ctx, sid)
	if err != nil {
		return nil, err
	}
	req, err := checkoutRequest(st)
	if err != nil {
		return nil, err
	}
	digest, err := orderDigest(req)
	if err != nil {
		return nil, err
	}
	if st.PendingCheckout == nil || st.PendingCheckout.Digest != digest {
		st.PendingCheckout = &PendingCheckout{Key: s.newKey(), Digest: digest}
		if err := s.save(ctx, sid, st); err != nil {
			return nil, err
		}
	}

	key := st.PendingCheckout.Key
	log := s.logger.With(logger.Field{Key: "booking_session", Value: sid}, logger.Field{Key: "idempotency_key", Value: key})
	log.Info("submitting booking", logger.Field{Key: "total", Value: req.TotalAmount}, logger.Field{Key: "currency", Value: req.Currency})

	conf, err := s.bookings.Create(ctx, *req, key)
	if err != nil {
		log.Error("booking submission failed", logger.Err(err))
		return nil, err
	}

	st.Confirmation = conf
	st.Step = StepConfirmation
	st.PendingCheckout = nil
	if err := s.save(ctx, sid, st); err != nil {
		log.Error("booking confirmed but not stored", logger.Err(err), logger.Field{Key: "reference", Value: conf.Reference})
		return nil, err
	}
	log.Info("booking confirmed", logger.Field{Key: "reference", Value: conf.Reference})
	return st, nil
}

// orderDigest fingerprints the order so a changed order gets a fresh key.
func orderDigest(req *apiclient.CreateBookingRequest) (string, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode booking request: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

func checkoutRequest(st *State) (*apiclient.CreateBookingRequest, error) {
	if st.Step != StepPayment {
		return nil, ErrNotAtPayment
	}
	if !st.CanProceed() {
		return nil, ErrIncompleteSelect
	}
	if len(st.Passengers) == 0 {
		return nil, ErrNoPassengers
	}
	if st.Contact == nil {
		return nil, ErrNoContact
	}
	if st.PaymentMethod == nil || st.PaymentMethod.Token == "" {
		return nil, ErrNoPaymentMethod
	}

	bt := st.BookingType()
	total := st.TotalAmount()
	req := &apiclient.CreateBookingRequest{
		BookingType:   string(bt),
		Passengers:    st.Passengers,
		Contact:       *st.Contact,
		PaymentMethod: *st.PaymentMethod,
		TotalAmount:   total.Amount,
		Currency:      total.Currency,
	}
	if f := st.SelectedFlight; f != nil && bt != TypeHotel {
		req.Flight = &apiclient.FlightLine{
			ScheduleID:   f.ScheduleID,
			FareID:       f.FareID,
			FlightNumber: f.FlightNumber,
			SeatClass:    f.SeatClass,
			Price:        f.Price.Amount,
		}
	}
	if h := st.SelectedHotel; h != nil && bt != TypeFlight {
		line := &apiclient.HotelLine{
			HotelID:       h.HotelID,
			RoomTypeID:    h.RoomTypeID,
			Rooms:         h.EffectiveRooms(),
			Nights:        h.EffectiveNights(),
			PricePerNight: h.PricePerNight.Amount,
		}
		if h.CheckIn != nil {
			line.CheckIn = h.CheckIn.Format(time.DateOnly)
		}
		if h.CheckOut != nil {
			line.CheckOut = h.CheckOut.Format(time.DateOnly)
		}
		req.Hotel = line
	}
	return req, nil
}
