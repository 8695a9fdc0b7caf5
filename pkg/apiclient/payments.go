package apiclient

import (
	"context"
	"net/http"
	"time"
)

type Payment struct {
	ID        string    `json:"id"`
	BookingID string    `json:"bookingId"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	Method    string    `json:"method"`
	CreatedAt time.Time `json:"createdAt"`
}

// SagaLog is one step record written by the backend payment saga.
type SagaLog struct {
	ID        string    `json:"id"`
	SagaID    string    `json:"sagaId"`
	Step      string    `json:"step"`
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type PaymentsClient struct {
	c *Client
}

func NewPaymentsClient(c *Client) *PaymentsClient {
	return &PaymentsClient{c: c}
}

const paymentsBase = "/api/v1/payments"

func (p *PaymentsClient) List(ctx context.Context, params ListParams) (*Page[Payment], error) {
	return crud[Payment, struct{}]{c: p.c, resource: "payments", base: paymentsBase}.List(ctx, params)
}

func (p *PaymentsClient) Get(ctx context.Context, id string) (*Payment, error) {
	return crud[Payment, struct{}]{c: p.c, resource: "payments", base: paymentsBase}.Get(ctx, id)
}

func (p *PaymentsClient) SagaLogs(ctx context.Context, paymentID string) ([]SagaLog, error) {
	var out []SagaLog
	err := p.c.do(ctx, request{
		method:   http.MethodGet,
		path:     paymentsBase + path(paymentID, "saga-logs"),
		resource: "payments.saga_logs",
	}, &out)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []SagaLog{}
	}
	return out, nil
}
