package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
)

func main() {
	// Default port
	port := "9090"

	// Check if port is provided as command line argument
	if len(os.Args) > 1 {
		port = os.Args[1]
	}

	mux := http.NewServeMux()

	airlines := newCollection[*Airline]("airline", seedAirlines())
	airlines.routes(mux, "/api/v1/airlines")

	hotels := newCollection[*Hotel]("hotel", seedHotels())
	hotels.routes(mux, "/api/v1/hotels")

	rooms := newRoomTypes(seedRoomTypes())
	mux.HandleFunc("GET /api/v1/hotels/{id}/room-types", rooms.list)
	mux.HandleFunc("GET /api/v1/hotels/{id}/room-types/{roomTypeId}", rooms.get)

	schedules := newScheduleStore()
	mux.HandleFunc("GET /api/v1/flight-schedules", schedules.list)
	mux.HandleFunc("GET /api/v1/flight-schedules/{id}", schedules.get)
	mux.HandleFunc("POST /api/v1/flight-schedules", schedules.create)
	mux.HandleFunc("PUT /api/v1/flight-schedules/{id}", schedules.update)

	mux.HandleFunc("POST /api/v1/flights/search", SearchHandler)

	bookings := newBookingStore()
	mux.HandleFunc("POST /api/v1/bookings", bookings.create)

	addr := fmt.Sprintf(":%s", port)
	fmt.Printf("Go Mock Server running on port %s...\n", port)
	if err := http.ListenAndServe(addr, logRequests(mux)); err != nil {
		log.Fatal(err)
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
