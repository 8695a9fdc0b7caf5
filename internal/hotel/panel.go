package hotel

import (
	"context"
	"errors"
	"sync"
	"time"

	"travel/internal/booking"
	"travel/pkg/apiclient"
	"travel/pkg/format"
	"travel/pkg/logger"
	"travel/pkg/notify"

	"golang.org/x/text/language"
)

var (
	ErrNoRoomType   = errors.New("choose a room type first")
	ErrPriceLoading = errors.New("room price is still loading")
	ErrInvalidStay  = errors.New("check-out must be after check-in")
)

// Nights is the number of nights between the stay dates, 1 when unknown.
func Nights(checkIn, checkOut *time.Time) int {
	return booking.Nights(checkIn, checkOut)
}

func Subtotal(pricePerNight format.Money, nights, rooms int) format.Money {
	return booking.Subtotal(pricePerNight, nights, rooms)
}

// RoomPricer reads hotel and room type data from the backend.
type RoomPricer interface {
	Get(ctx context.Context, id string) (*apiclient.Hotel, error)
	RoomType(ctx context.Context, hotelID, roomTypeID string) (*apiclient.RoomType, error)
}

type PanelView struct {
	HotelID           string       `json:"hotelId"`
	RoomTypeID        string       `json:"roomTypeId,omitempty"`
	RoomName          string       `json:"roomName,omitempty"`
	PricePerNight     format.Money `json:"pricePerNight"`
	PriceFormatted    string       `json:"priceFormatted,omitempty"`
	CheckIn           *time.Time   `json:"checkIn,omitempty"`
	CheckOut          *time.Time   `json:"checkOut,omitempty"`
	Nights            int          `json:"nights"`
	Rooms             int          `json:"rooms"`
	Subtotal          format.Money `json:"subtotal"`
	SubtotalFormatted string       `json:"subtotalFormatted,omitempty"`
	Loading           bool         `json:"loading"`
}

// Panel is the room pricing box of one hotel detail screen.
type Panel struct {
	hotelID  string
	pricer   RoomPricer
	notifier notify.Notifier
	logger   logger.Logger
	lang     language.Tag

	mu         sync.Mutex
	roomTypeID string
	roomName   string
	price      format.Money
	checkIn    *time.Time
	checkOut   *time.Time
	rooms      int
	loading    bool
	generation uint64
	lastUsed   time.Time
}

func NewPanel(hotelID string, pricer RoomPricer, n notify.Notifier, log logger.Logger) *Panel {
	return &Panel{
		hotelID:  hotelID,
		pricer:   pricer,
		notifier: n,
		logger:   log.With(logger.Field{Key: "hotel_id", Value: hotelID}),
		lang:     language.English,
		rooms:    1,
	}
}

// SetLanguage picks the locale used for price change notifications.
func (p *Panel) SetLanguage(lang language.Tag) {
	p.mu.Lock()
	p.lang = lang
	p.mu.Unlock()
}

func (p *Panel) View(lang language.Tag) PanelView {
	p.mu.Lock()
	defer p.mu.Unlock()

	nights := Nights(p.checkIn, p.checkOut)
	v := PanelView{
		HotelID:       p.hotelID,
		RoomTypeID:    p.roomTypeID,
		RoomName:      p.roomName,
		PricePerNight: p.price,
		CheckIn:       p.checkIn,
		CheckOut:      p.checkOut,
		Nights:        nights,
		Rooms:         p.rooms,
		Subtotal:      Subtotal(p.price, nights, p.rooms),
		Loading:       p.loading,
	}
	if p.price.Currency != "" {
		v.PriceFormatted = format.FormatCurrency(lang, v.PricePerNight)
		v.SubtotalFormatted = format.FormatCurrency(lang, v.Subtotal)
	}
	return v
}

// SetStay changes the dates and room count. Missing dates fall back to one night.
func (p *Panel) SetStay(checkIn, checkOut *time.Time, rooms int) error {
	if checkIn != nil && checkOut != nil && !checkOut.After(*checkIn) {
		return ErrInvalidStay
	}
	if rooms < 1 {
		rooms = 1
	}
	p.mu.Lock()
	p.checkIn, p.checkOut, p.rooms = checkIn, checkOut, rooms
	p.mu.Unlock()
	return nil
}

// SelectRoomType fetches the price of roomTypeID in the background. The
// previous room and price stay in place, marked loading, until the fetch
// resolves. A later call supersedes an earlier one still in flight. The
// returned channel closes when this fetch has been applied or discarded.
func (p *Panel) SelectRoomType(ctx context.Context, roomTypeID string) <-chan struct{} {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.loading = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		rt, err := p.pricer.RoomType(context.WithoutCancel(ctx), p.hotelID, roomTypeID)
		p.apply(gen, roomTypeID, rt, err)
	}()
	return done
}

func (p *Panel) apply(gen uint64, roomTypeID string, rt *apiclient.RoomType, err error) {
	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		p.logger.Debug("discarding superseded room price", logger.Field{Key: "room_type_id", Value: roomTypeID})
		return
	}
	p.loading = false
	if err != nil {
		p.mu.Unlock()
		p.logger.Error("failed to load room price", logger.Err(err), logger.Field{Key: "room_type_id", Value: roomTypeID})
		msg := "Failed to load room price"
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		p.notifier.Error(msg)
		return
	}

	old := p.price
	p.roomTypeID = roomTypeID
	p.roomName = rt.Name
	p.price = rt.Price()
	lang := p.lang
	p.mu.Unlock()

	next := rt.Price()
	switch {
	case old.Currency == "":
		p.notifier.Info(rt.Name + ": " + format.FormatCurrency(lang, next) + " per night")
	case old != next:
		p.notifier.Info("Price updated: " + format.FormatCurrency(lang, old) + " → " + format.FormatCurrency(lang, next))
	}
}

// Selection turns the panel into the booking's hotel selection.
func (p *Panel) Selection(ctx context.Context) (*booking.SelectedHotel, error) {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return nil, ErrPriceLoading
	}
	if p.roomTypeID == "" {
		p.mu.Unlock()
		return nil, ErrNoRoomType
	}
	sel := &booking.SelectedHotel{
		HotelID:       p.hotelID,
		RoomTypeID:    p.roomTypeID,
		RoomName:      p.roomName,
		PricePerNight: p.price,
		Rooms:         p.rooms,
		Nights:        Nights(p.checkIn, p.checkOut),
		CheckIn:       p.checkIn,
		CheckOut:      p.checkOut,
	}
	p.mu.Unlock()

	h, err := p.pricer.Get(ctx, p.hotelID)
	if err != nil {
		return nil, err
	}
	sel.HotelName = h.Name
	sel.Address = h.Address
	sel.City = h.City
	sel.Country = h.Country
	for _, a := range h.Amenities {
		sel.Amenities = append(sel.Amenities, a.Name)
	}
	return sel, nil
}

type panelKey struct {
	session string
	hotelID string
}

// Panels keeps one Panel per browser session and hotel.
type Panels struct {
	mu      sync.Mutex
	panels  map[panelKey]*Panel
	pricer  RoomPricer
	feed    *notify.Feed
	logger  logger.Logger
	idleTTL time.Duration
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

func NewPanels(pricer RoomPricer, feed *notify.Feed, log logger.Logger, idleTTL time.Duration) *Panels {
	ps := &Panels{
		panels:  make(map[panelKey]*Panel),
		pricer:  pricer,
		feed:    feed,
		logger:  log,
		idleTTL: idleTTL,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go ps.cleanupRoutine()
	return ps
}

func (ps *Panels) Get(sessionID, hotelID string) *Panel {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	key := panelKey{session: sessionID, hotelID: hotelID}
	p, ok := ps.panels[key]
	if !ok {
		p = NewPanel(hotelID, ps.pricer, ps.feed.For(sessionID), ps.logger)
		ps.panels[key] = p
	}
	p.lastUsed = ps.now()
	return p
}

func (ps *Panels) Cleanup() {
	ps.once.Do(func() {
		close(ps.done)
	})
}

func (ps *Panels) cleanupRoutine() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ps.removeIdle(ps.now())
		case <-ps.done:
			return
		}
	}
}

func (ps *Panels) removeIdle(now time.Time) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for k, p := range ps.panels {
		if now.Sub(p.lastUsed) > ps.idleTTL {
			delete(ps.panels, k)
		}
	}
}
