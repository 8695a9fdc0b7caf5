package apiclient

import "time"

// Onboarding stages of a partner application. Read-only on the portal.
const (
	OnboardingPending  = "PENDING"
	OnboardingReview   = "IN_REVIEW"
	OnboardingApproved = "APPROVED"
	OnboardingRejected = "REJECTED"
)

type Partner struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone,omitempty"`
	Type             string    `json:"type"`
	OnboardingStatus string    `json:"onboardingStatus"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"createdAt,omitempty"`
}

type PartnerInput struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone,omitempty" validate:"omitempty,phone"`
	Type  string `json:"type" validate:"required,oneof=HOTEL AIRLINE AGENCY"`
}

type PartnersClient struct {
	crud[Partner, PartnerInput]
}

func NewPartnersClient(c *Client) *PartnersClient {
	return &PartnersClient{crud[Partner, PartnerInput]{c: c, resource: "partners", base: "/api/v1/partners"}}
}
