package apiclient

import (
	"context"
	"net/http"
)

type Amenity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Icon     string `json:"icon,omitempty"`
	Active   bool   `json:"active"`
}

type AmenityInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Category string `json:"category" validate:"required,oneof=GENERAL ROOM BATHROOM FOOD ENTERTAINMENT BUSINESS WELLNESS"`
	Icon     string `json:"icon,omitempty" validate:"omitempty,max=50"`
	Active   bool   `json:"active"`
}

type AmenitiesClient struct {
	crud[Amenity, AmenityInput]
}

func NewAmenitiesClient(c *Client) *AmenitiesClient {
	return &AmenitiesClient{crud[Amenity, AmenityInput]{c: c, resource: "amenities", base: "/api/v1/amenities"}}
}

// SetActive toggles one amenity's status.
func (a *AmenitiesClient) SetActive(ctx context.Context, id string, active bool) error {
	return a.c.do(ctx, request{
		method:   http.MethodPatch,
		path:     a.base + path(id, "status"),
		resource: "amenities.status",
		body:     map[string]bool{"active": active},
	}, nil)
}
