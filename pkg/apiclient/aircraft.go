package apiclient

type Aircraft struct {
	ID           string `json:"id"`
	Model        string `json:"model"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Registration string `json:"registration"`
	TotalSeats   int    `json:"totalSeats"`
	AirlineID    string `json:"airlineId"`
	AirlineName  string `json:"airlineName,omitempty"`
	Active       bool   `json:"active"`
}

type AircraftInput struct {
	Model        string `json:"model" validate:"required,max=100"`
	Manufacturer string `json:"manufacturer,omitempty" validate:"omitempty,max=100"`
	Registration string `json:"registration" validate:"required,max=10"`
	TotalSeats   int    `json:"totalSeats" validate:"required,min=1,max=853"`
	AirlineID    string `json:"airlineId" validate:"required"`
	Active       bool   `json:"active"`
}

type AircraftClient struct {
	crud[Aircraft, AircraftInput]
}

func NewAircraftClient(c *Client) *AircraftClient {
	return &AircraftClient{crud[Aircraft, AircraftInput]{c: c, resource: "aircraft", base: "/api/v1/aircraft"}}
}
