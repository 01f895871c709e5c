// Package viacep resolves Brazilian postal codes (CEP) through the ViaCEP web service.
package viacep

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"drivent-backend/internal/models"
)

// DefaultBaseURL is the public ViaCEP endpoint.
const DefaultBaseURL = "https://viacep.com.br/ws"

// ErrUnavailable marks failures to reach or understand the provider, as opposed to
// the provider answering that the CEP does not exist.
var ErrUnavailable = errors.New("viacep: provider unavailable")

// AddressLookup resolves a CEP to its address fields.
type AddressLookup interface {
	Lookup(ctx context.Context, cep string) (*models.AddressFields, error)
}

// LookupError wraps transport, status and decoding failures. It matches both
// ErrUnavailable and models.ErrNotFound, so callers that only know about
// "not found" keep working.
type LookupError struct {
	CEP string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("viacep: lookup %q: %v", e.CEP, e.Err)
}

func (e *LookupError) Unwrap() []error {
	return []error{ErrUnavailable, models.ErrNotFound, e.Err}
}

var _ AddressLookup = (*Client)(nil)

// Client talks to ViaCEP over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the timeout of the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a client for the given base URL, e.g. "https://viacep.com.br/ws".
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// viaCEPResponse mirrors the provider's JSON body.
type viaCEPResponse struct {
	Logradouro  string   `json:"logradouro"`
	Complemento string   `json:"complemento"`
	Bairro      string   `json:"bairro"`
	Localidade  string   `json:"localidade"`
	UF          string   `json:"uf"`
	Erro        flagBool `json:"erro"`
}

// flagBool accepts both `true` and `"true"`; ViaCEP has emitted each over time.
type flagBool bool

func (b *flagBool) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "true", "1":
		*b = true
	default:
		*b = false
	}
	return nil
}

// Lookup performs GET {base}/{cep}/json/ and normalizes the answer.
// It returns models.ErrNotFound when the provider reports no such CEP.
func (c *Client) Lookup(ctx context.Context, cep string) (*models.AddressFields, error) {
	endpoint := fmt.Sprintf("%s/%s/json/", c.baseURL, url.PathEscape(cep))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &LookupError{CEP: cep, Err: err}
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &LookupError{CEP: cep, Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &LookupError{CEP: cep, Err: fmt.Errorf("unexpected status %d", response.StatusCode)}
	}

	contents, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &LookupError{CEP: cep, Err: fmt.Errorf("failed reading response body: %w", err)}
	}

	contents = bytes.TrimSpace(contents)
	if len(contents) == 0 || bytes.Equal(contents, []byte("null")) {
		return nil, models.ErrNotFound
	}

	var body viaCEPResponse
	if err := json.Unmarshal(contents, &body); err != nil {
		return nil, &LookupError{CEP: cep, Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}

	if body.Erro {
		return nil, models.ErrNotFound
	}

	return &models.AddressFields{
		Street:       body.Logradouro,
		Complement:   body.Complemento,
		Neighborhood: body.Bairro,
		City:         body.Localidade,
		State:        body.UF,
	}, nil
}
