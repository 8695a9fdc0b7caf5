package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"travel/pkg/logger"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "travel/pkg/apiclient"

// APIError is a non-2xx backend response. Message carries the backend's "message" field.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ListParams are the query parameters every paginated list endpoint accepts.
type ListParams struct {
	Search  string            `json:"search,omitempty"`
	Page    int               `json:"page"`
	Size    int               `json:"size"`
	Filters map[string]string `json:"filters,omitempty"`
}

func (p ListParams) Query() url.Values {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	q.Set("page", strconv.Itoa(p.Page))
	size := p.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	q.Set("size", strconv.Itoa(size))
	for k, v := range p.Filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}

const DefaultPageSize = 10

// Page is the backend's paginated envelope.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// Client is the shared transport for every resource client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	signer     *TokenSigner
	logger     logger.Logger
	tracer     trace.Tracer
	requests   metric.Int64Counter
}

func NewClient(httpClient *http.Client, baseURL string, signer *TokenSigner, log logger.Logger) *Client {
	meter := otel.Meter(instrumentationName)
	counter, err := meter.Int64Counter("portal.backend.requests",
		metric.WithDescription("Backend REST calls issued by the portal"))
	if err != nil {
		log.Warn("failed to create backend request counter", logger.Err(err))
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		signer:     signer,
		logger:     log,
		tracer:     otel.Tracer(instrumentationName),
		requests:   counter,
	}
}

type request struct {
	method   string
	path     string
	resource string
	query    url.Values
	body     any
	headers  map[string]string
}

func (c *Client) do(ctx context.Context, r request, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, r.method+" "+r.resource,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", r.method),
			attribute.String("url.path", r.path),
		))
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if c.requests != nil {
			c.requests.Add(ctx, 1, metric.WithAttributes(
				attribute.String("resource", r.resource),
				attribute.String("method", r.method),
				attribute.String("outcome", outcome),
			))
		}
		c.logger.Debug("backend call",
			logger.Field{Key: "method", Value: r.method},
			logger.Field{Key: "path", Value: r.path},
			logger.Field{Key: "outcome", Value: outcome},
			logger.Field{Key: "elapsed_ms", Value: time.Since(start).Milliseconds()},
		)
	}()

	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", r.resource, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if err := c.authorize(ctx, req); err != nil {
		return err
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend call failed: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", r.resource, err)
	}
	return nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	actor, ok := ActorFrom(ctx)
	if !ok || c.signer == nil {
		return nil
	}
	token, err := c.signer.Sign(actor)
	if err != nil {
		return fmt.Errorf("failed to sign service token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var eb errorBody
	if len(raw) > 0 && json.Unmarshal(raw, &eb) == nil {
		apiErr.Message = eb.Message
		if apiErr.Message == "" {
			apiErr.Message = eb.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}
	return apiErr
}

func path(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return "/" + strings.Join(escaped, "/")
}
