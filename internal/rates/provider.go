package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

var ErrNoRate = errors.New("no usable rate")

// Provider is one external source of exchange rates.
type Provider interface {
	Name() string
	Rate(ctx context.Context, from, to string) (float64, error)
}

// JSONProvider queries an endpoint answering {"rates": {"<CODE>": <rate>}}.
type JSONProvider struct {
	name     string
	endpoint string
	params   func(from, to string) url.Values
	client   *http.Client
}

func NewJSONProvider(name, endpoint string, params func(from, to string) url.Values) *JSONProvider {
	return &JSONProvider{
		name:     name,
		endpoint: endpoint,
		params:   params,
		client:   http.DefaultClient,
	}
}

func (p *JSONProvider) WithClient(client *http.Client) *JSONProvider {
	p.client = client
	return p
}

func (p *JSONProvider) Name() string { return p.name }

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

func (p *JSONProvider) Rate(ctx context.Context, from, to string) (float64, error) {
	reqURL := p.endpoint + "?" + p.params(from, to).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%s returned %d", p.name, resp.StatusCode)
	}

	var data ratesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return 0, fmt.Errorf("json unmarshal: %w", err)
	}

	// A rate of exactly 1 is indistinguishable from the provider's default.
	rate, ok := data.Rates[to]
	if !ok || rate <= 0 || rate == 1 {
		return 0, ErrNoRate
	}

	return rate, nil
}

func baseParam(from, _ string) url.Values {
	return url.Values{"base": {from}}
}

// DefaultProviders lists the public providers in the order they are tried.
func DefaultProviders() []Provider {
	return []Provider{
		NewJSONProvider("exchangerate.host", "https://api.exchangerate.host/latest", baseParam),
		NewJSONProvider("open.er-api.com", "https://open.er-api.com/v6/latest", baseParam),
		NewJSONProvider("frankfurter.app", "https://api.frankfurter.app/latest", func(from, to string) url.Values {
			return url.Values{"from": {from}, "to": {to}}
		}),
	}
}
