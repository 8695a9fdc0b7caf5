package apiclient

// Services bundles one client per backend resource.
type Services struct {
	Airlines  *AirlinesClient
	Aircraft  *AircraftClient
	Flights   *FlightsClient
	Schedules *SchedulesClient
	Hotels    *HotelsClient
	Amenities *AmenitiesClient
	Partners  *PartnersClient
	Payments  *PaymentsClient
	Bookings  *BookingsClient
}

func NewServices(c *Client) *Services {
	return &Services{
		Airlines:  NewAirlinesClient(c),
		Aircraft:  NewAircraftClient(c),
		Flights:   NewFlightsClient(c),
		Schedules: NewSchedulesClient(c),
		Hotels:    NewHotelsClient(c),
		Amenities: NewAmenitiesClient(c),
		Partners:  NewPartnersClient(c),
		Payments:  NewPaymentsClient(c),
		Bookings:  NewBookingsClient(c),
	}
}
