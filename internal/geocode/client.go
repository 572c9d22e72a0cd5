// Package geocode resolves free-text addresses to coordinates via an
// external geocoding API.
package geocode

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Result holds the data returned from an address lookup.
type Result struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address"`
}

// Client fetches geocoding results from the external API.
type Client struct {
	httpClient *http.Client
	apiKey     string

	// Overridable URL for testing.
	baseURL string
}

// NewClient creates a geocoding client with the given API key.
func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEOCODER_KEY is required")
	}
	return &Client{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
	}, nil
}

// SetBaseURL overrides the API endpoint. Intended for tests and
// alternative providers with a compatible response shape.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// geocodeResponse is the relevant subset of the API response.
type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Lookup resolves an address to coordinates and a display address.
// A lookup with no matches is an error: callers treat it as a rejected
// operation, never a partial record.
func (c *Client) Lookup(address string) (*Result, error) {
	if address == "" {
		return nil, fmt.Errorf("address is required")
	}

	params := url.Values{
		"address": {address},
		"key":     {c.apiKey},
	}

	req, err := http.NewRequest("GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = fmt.Errorf("%w (also failed to close body: %v)", err, closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var result geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if result.Status != "OK" || len(result.Results) == 0 {
		return nil, fmt.Errorf("no results for address: %s", address)
	}

	first := result.Results[0]
	return &Result{
		Latitude:         first.Geometry.Location.Lat,
		Longitude:        first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
	}, nil
}

// Geocoder is the capability the web layer depends on.
// *Client satisfies it; tests substitute fakes.
type Geocoder interface {
	Lookup(address string) (*Result, error)
}
