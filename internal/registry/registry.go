package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/octobees/siret-extractor/internal/requestid"
)

// DefaultBaseURL is the public company registry endpoint.
const DefaultBaseURL = "https://entreprise.signal.conso.gouv.fr"

const (
	siretSearchPath = "/api/companies/search"
	sirenSearchPath = "/api/companies/siren/search"
)

// Address is the postal address of an establishment.
type Address struct {
	Number            string `json:"number,omitempty"`
	Street            string `json:"street,omitempty"`
	AddressSupplement string `json:"addressSupplement,omitempty"`
	PostalCode        string `json:"postalCode,omitempty"`
	City              string `json:"city,omitempty"`
	Country           string `json:"country,omitempty"`
}

// Record is the registry entry of one establishment.
type Record struct {
	Siret          string  `json:"siret"`
	Name           string  `json:"name,omitempty"`
	CommercialName string  `json:"commercialName,omitempty"`
	Brand          string  `json:"brand,omitempty"`
	IsHeadOffice   bool    `json:"isHeadOffice"`
	IsOpen         bool    `json:"isOpen"`
	IsPublic       bool    `json:"isPublic"`
	Address        Address `json:"address"`
	ActivityCode   string  `json:"activityCode"`
	ActivityLabel  string  `json:"activityLabel,omitempty"`
	IsMarketPlace  bool    `json:"isMarketPlace"`
}

// Lookup searches the registry in bulk.
type Lookup interface {
	LookupBySiret(ctx context.Context, sirets []string) ([]Record, error)
	LookupBySiren(ctx context.Context, sirens []string) ([]Record, error)
}

// Client talks to the company registry API.
type Client struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewClient builds a registry client authenticated with token.
func NewClient(client *http.Client, baseURL, token string) *Client {
	if baseURL == "" {
		panic("registry baseURL must not be empty")
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{client: client, baseURL: strings.TrimRight(baseURL, "/"), token: token}
}

// LookupBySiret returns the records of the given establishments.
func (c *Client) LookupBySiret(ctx context.Context, sirets []string) ([]Record, error) {
	return c.search(ctx, siretSearchPath, sirets)
}

// LookupBySiren returns the records of establishments belonging to the given companies.
func (c *Client) LookupBySiren(ctx context.Context, sirens []string) ([]Record, error) {
	return c.search(ctx, sirenSearchPath, sirens)
}

func (c *Client) search(ctx context.Context, path string, values []string) ([]Record, error) {
	if len(values) == 0 {
		return []Record{}, nil
	}

	body, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal registry query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create registry request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.token)
	if rid := requestid.From(ctx); rid != "" {
		req.Header.Set(requestid.Header, rid)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("registry error: %d %s", resp.StatusCode, errorMessage(resp.Body))
	}

	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not decode registry response: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return "registry returned an error"
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(data))
}

var _ Lookup = (*Client)(nil)
