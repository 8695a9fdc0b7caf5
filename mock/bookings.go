package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

type bookingRequest struct {
	BookingType string `json:"bookingType"`
	Passengers  []any  `json:"passengers"`
	TotalAmount int64  `json:"totalAmount"`
	Currency    string `json:"currency"`
}

type Confirmation struct {
	BookingID   string    `json:"bookingId"`
	Reference   string    `json:"reference"`
	Status      string    `json:"status"`
	TotalAmount int64     `json:"totalAmount"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"createdAt"`
}

type bookingStore struct {
	mu    sync.Mutex
	byKey map[string]Confirmation
	count int
}

func newBookingStore() *bookingStore {
	return &bookingStore{byKey: make(map[string]Confirmation)}
}

// create replays the stored confirmation when the Idempotency-Key was seen before.
func (b *bookingStore) create(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if len(req.Passengers) == 0 {
		writeError(w, http.StatusBadRequest, "at least one passenger is required")
		return
	}

	key := r.Header.Get("Idempotency-Key")

	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.byKey[key]; ok && key != "" {
		writeJSON(w, http.StatusOK, c)
		return
	}

	b.count++
	c := Confirmation{
		BookingID:   fmt.Sprintf("%d", b.count),
		Reference:   fmt.Sprintf("TRV%06d", b.count),
		Status:      "PENDING_PAYMENT",
		TotalAmount: req.TotalAmount,
		Currency:    req.Currency,
		CreatedAt:   time.Now().UTC(),
	}
	if key != "" {
		b.byKey[key] = c
	}
	writeJSON(w, http.StatusCreated, c)
}
