package apiclient

import "time"

type Airline struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Country   string    `json:"country,omitempty"`
	LogoURL   string    `json:"logoUrl,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

type AirlineInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Code    string `json:"code" validate:"required,iata_airline"`
	Country string `json:"country,omitempty" validate:"omitempty,max=100"`
	LogoURL string `json:"logoUrl,omitempty" validate:"omitempty,url"`
	Active  bool   `json:"active"`
}

type AirlinesClient struct {
	crud[Airline, AirlineInput]
}

func NewAirlinesClient(c *Client) *AirlinesClient {
	return &AirlinesClient{crud[Airline, AirlineInput]{c: c, resource: "airlines", base: "/api/v1/airlines"}}
}
