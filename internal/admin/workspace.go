package admin

import (
	"context"
	"sync"
	"time"

	"travel/internal/schedule"
	"travel/internal/web"
	"travel/pkg/apiclient"
	"travel/pkg/logger"
	"travel/pkg/notify"
	"travel/pkg/validate"
)

// Workspace holds every admin screen of one browser session.
type Workspace struct {
	Airlines  *Screen[apiclient.Airline, apiclient.AirlineInput]
	Aircraft  *Screen[apiclient.Aircraft, apiclient.AircraftInput]
	Flights   *Screen[apiclient.Flight, apiclient.FlightInput]
	Schedules *Screen[apiclient.FlightSchedule, schedule.Form]
	Hotels    *Screen[apiclient.Hotel, apiclient.HotelInput]
	Amenities *Screen[apiclient.Amenity, apiclient.AmenityInput]
	Partners  *Screen[apiclient.Partner, apiclient.PartnerInput]
	Payments  *Screen[apiclient.Payment, struct{}]

	services *apiclient.Services
	notifier notify.Notifier
	logger   logger.Logger
}

// Backends are the writers behind the workspace screens.
type Backends struct {
	Services  *apiclient.Services
	Schedules Mutator[apiclient.FlightSchedule, schedule.Form]
	// CatalogChanged runs after flights or schedules change, so cached
	// searches stop offering what the back office just edited.
	CatalogChanged func(ctx context.Context) error
}

func NewWorkspace(b Backends, v *validate.Validator, n notify.Notifier, log logger.Logger) *Workspace {
	svc := b.Services
	return &Workspace{
		Airlines: NewScreen(ScreenConfig[apiclient.Airline, apiclient.AirlineInput]{
			Label: "Airline", Plural: "airlines", Lister: svc.Airlines, Mutator: svc.Airlines, Normalize: NormalizeAirline,
		}, v, n, log),
		Aircraft: NewScreen(ScreenConfig[apiclient.Aircraft, apiclient.AircraftInput]{
			Label: "Aircraft", Plural: "aircraft", Lister: svc.Aircraft, Mutator: svc.Aircraft, Normalize: NormalizeAircraft,
		}, v, n, log),
		Flights: NewScreen(ScreenConfig[apiclient.Flight, apiclient.FlightInput]{
			Label: "Flight", Plural: "flights", Lister: svc.Flights, Mutator: svc.Flights, Normalize: NormalizeFlight,
			Changed: b.CatalogChanged,
		}, v, n, log),
		Schedules: NewScreen(ScreenConfig[apiclient.FlightSchedule, schedule.Form]{
			Label: "Schedule", Plural: "schedules", Lister: svc.Schedules, Mutator: b.Schedules, Normalize: NormalizeSchedule,
			Changed: b.CatalogChanged,
		}, v, n, log),
		Hotels: NewScreen(ScreenConfig[apiclient.Hotel, apiclient.HotelInput]{
			Label: "Hotel", Plural: "hotels", Lister: svc.Hotels, Mutator: svc.Hotels, Normalize: NormalizeHotel,
		}, v, n, log),
		Amenities: NewScreen(ScreenConfig[apiclient.Amenity, apiclient.AmenityInput]{
			Label: "Amenity", Plural: "amenities", Lister: svc.Amenities, Mutator: svc.Amenities, Normalize: NormalizeAmenity,
		}, v, n, log),
		Partners: NewScreen(ScreenConfig[apiclient.Partner, apiclient.PartnerInput]{
			Label: "Partner", Plural: "partners", Lister: svc.Partners, Mutator: svc.Partners, Normalize: NormalizePartner,
		}, v, n, log),
		Payments: NewScreen(ScreenConfig[apiclient.Payment, struct{}]{
			Label: "Payment", Plural: "payments", Lister: svc.Payments,
		}, v, n, log),
		services: svc,
		notifier: n,
		logger:   log,
	}
}

// SetAmenitiesActive toggles the status of every selected amenity.
func (w *Workspace) SetAmenitiesActive(ctx context.Context, ids []string, active bool) (*BulkResult, error) {
	action := "deactivated"
	if active {
		action = "activated"
	}
	return w.Amenities.Bulk(ctx, action, ids, func(ctx context.Context, id string) error {
		return w.services.Amenities.SetActive(ctx, id, active)
	})
}

func (w *Workspace) SagaLogs(ctx context.Context, paymentID string) ([]apiclient.SagaLog, error) {
	logs, err := w.services.Payments.SagaLogs(ctx, paymentID)
	if err != nil {
		w.logger.Error("failed to load saga logs", logger.Err(err), logger.Field{Key: "payment_id", Value: paymentID})
		w.notifier.Error(web.BackendMessage(err, "Failed to load saga logs"))
		return nil, err
	}
	return logs, nil
}

type workspaceEntry struct {
	ws       *Workspace
	lastUsed time.Time
}

// Workspaces creates one Workspace per admin session on first use and drops
// the ones left idle longer than idleTTL.
type Workspaces struct {
	mu        sync.Mutex
	entries   map[string]*workspaceEntry
	backends  Backends
	validator *validate.Validator
	feed      *notify.Feed
	logger    logger.Logger
	idleTTL   time.Duration
	now       func() time.Time
	done      chan struct{}
	once      sync.Once
}

func NewWorkspaces(b Backends, v *validate.Validator, feed *notify.Feed, log logger.Logger, idleTTL time.Duration) *Workspaces {
	w := &Workspaces{
		entries:   make(map[string]*workspaceEntry),
		backends:  b,
		validator: v,
		feed:      feed,
		logger:    log,
		idleTTL:   idleTTL,
		now:       time.Now,
		done:      make(chan struct{}),
	}
	go w.cleanupRoutine()
	return w
}

func (w *Workspaces) Get(sessionID string) *Workspace {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.entries[sessionID]
	if !ok {
		log := w.logger.With(logger.Field{Key: "admin_session", Value: sessionID})
		e = &workspaceEntry{ws: NewWorkspace(w.backends, w.validator, w.feed.For(sessionID), log)}
		w.entries[sessionID] = e
	}
	e.lastUsed = w.now()
	return e.ws
}

func (w *Workspaces) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

func (w *Workspaces) Cleanup() {
	w.once.Do(func() {
		close(w.done)
	})
}

func (w *Workspaces) cleanupRoutine() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.removeIdle(w.now())
		case <-w.done:
			return
		}
	}
}

func (w *Workspaces) removeIdle(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, e := range w.entries {
		if now.Sub(e.lastUsed) > w.idleTTL {
			delete(w.entries, id)
		}
	}
}
