package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StripeGateway talks to the Stripe Checkout REST API.  Requests are
// form-encoded with the secret key as a bearer token, responses are JSON.
type StripeGateway struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewStripeGateway returns a gateway using the given secret key.  baseURL
// is overridable for tests; pass "" for the production endpoint.
func NewStripeGateway(apiKey, baseURL string) *StripeGateway {
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	return &StripeGateway{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// sessionPayload mirrors the checkout session fields this service reads.
type sessionPayload struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
	Status        string `json:"status"`
	AmountTotal   int64  `json:"amount_total"` // minor units
	Currency      string `json:"currency"`
}

// CreateSession opens a checkout session for a single line item covering
// the full booking amount.
func (g *StripeGateway) CreateSession(ctx context.Context, in CreateSessionInput) (Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price_data][currency]", in.Currency)
	form.Set("line_items[0][price_data][product_data][name]", in.ProductName)
	// Stripe amounts are integers in the currency's minor unit.
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(int64(math.Round(in.Amount*100)), 10))
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", in.SuccessURL)
	form.Set("cancel_url", in.CancelURL)
	for k, v := range in.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var sp sessionPayload
	if err := g.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &sp); err != nil {
		return Session{}, err
	}
	return Session{ID: sp.ID, URL: sp.URL}, nil
}

// GetStatus retrieves the current state of a checkout session.
func (g *StripeGateway) GetStatus(ctx context.Context, sessionID string) (SessionStatus, error) {
	var sp sessionPayload
	path := "/v1/checkout/sessions/" + url.PathEscape(sessionID)
	if err := g.do(ctx, http.MethodGet, path, nil, &sp); err != nil {
		return SessionStatus{}, err
	}
	return SessionStatus{
		PaymentStatus: sp.PaymentStatus,
		Status:        sp.Status,
		AmountTotal:   float64(sp.AmountTotal) / 100,
		Currency:      sp.Currency,
	}, nil
}

func (g *StripeGateway) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode/100 != 2 {
		// Stripe error bodies carry {"error": {"message": ...}}.
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("stripe: %s (status %d)", apiErr.Error.Message, resp.StatusCode)
		}
		return fmt.Errorf("stripe: unexpected status %d", resp.StatusCode)
	}
	return json.Unmarshal(raw, out)
}
