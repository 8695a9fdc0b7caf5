package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"
)

type Schedule struct {
	ID            string    `json:"id"`
	FlightID      string    `json:"flightId"`
	AircraftID    string    `json:"aircraftId"`
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
	Status        string    `json:"status,omitempty"`
}

const conflictMessage = "Aircraft is already scheduled for another flight in this time window"

type scheduleStore struct {
	mu     sync.Mutex
	items  map[string]*Schedule
	nextID int
}

func newScheduleStore() *scheduleStore {
	return &scheduleStore{items: make(map[string]*Schedule)}
}

// conflicts reports whether the aircraft is already flying during s, ignoring s itself.
func (st *scheduleStore) conflicts(s *Schedule) bool {
	for _, other := range st.items {
		if other.ID == s.ID || other.AircraftID != s.AircraftID || other.Status == "CANCELLED" {
			continue
		}
		if s.DepartureTime.Before(other.ArrivalTime) && other.DepartureTime.Before(s.ArrivalTime) {
			return true
		}
	}
	return false
}

func (st *scheduleStore) list(w http.ResponseWriter, r *http.Request) {
	st.mu.Lock()
	all := make([]Schedule, 0, len(st.items))
	for i := 1; i <= st.nextID; i++ {
		if s, ok := st.items[strconv.Itoa(i)]; ok {
			all = append(all, *s)
		}
	}
	st.mu.Unlock()
	writeJSON(w, http.StatusOK, paginate(all, r))
}

func (st *scheduleStore) get(w http.ResponseWriter, r *http.Request) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.items[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "schedule not found")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (st *scheduleStore) create(w http.ResponseWriter, r *http.Request) {
	var s Schedule
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if !s.ArrivalTime.After(s.DepartureTime) {
		writeError(w, http.StatusBadRequest, "arrival time must be after departure time")
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.conflicts(&s) {
		writeError(w, http.StatusConflict, conflictMessage)
		return
	}
	st.nextID++
	s.ID = strconv.Itoa(st.nextID)
	if s.Status == "" {
		s.Status = "SCHEDULED"
	}
	st.items[s.ID] = &s
	writeJSON(w, http.StatusCreated, s)
}

func (st *scheduleStore) update(w http.ResponseWriter, r *http.Request) {
	var in Schedule
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	existing, ok := st.items[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "schedule not found")
		return
	}

	next := *existing
	next.AircraftID = in.AircraftID
	next.DepartureTime = in.DepartureTime
	next.ArrivalTime = in.ArrivalTime
	if in.Status != "" {
		next.Status = in.Status
	}
	if st.conflicts(&next) {
		writeError(w, http.StatusConflict, conflictMessage)
		return
	}
	st.items[next.ID] = &next
	writeJSON(w, http.StatusOK, next)
}
