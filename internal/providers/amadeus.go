package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// AmadeusClient covers both flight offers and hotel lookups from the
// Amadeus self-service APIs. OAuth2 tokens are cached until shortly
// before expiry so consecutive pipeline steps reuse one token.
type AmadeusClient struct {
	APIKey    string
	APISecret string
	BaseURL   string
	client    *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewAmadeusClient(apiKey, apiSecret string) *AmadeusClient {
	return &AmadeusClient{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   "https://test.api.amadeus.com",
		client:    newHTTPClient(),
	}
}

type FlightOffers struct {
	Data []FlightOffer `json:"data"`
}

type FlightOffer struct {
	ID          string      `json:"id"`
	OneWay      bool        `json:"oneWay,omitempty"`
	Price       FlightPrice `json:"price"`
	Itineraries []struct {
		Duration string `json:"duration"`
		Segments []struct {
			CarrierCode string `json:"carrierCode"`
			Number      string `json:"number"`
			Departure   struct {
				IataCode string `json:"iataCode"`
				At       string `json:"at"`
			} `json:"departure"`
			Arrival struct {
				IataCode string `json:"iataCode"`
				At       string `json:"at"`
			} `json:"arrival"`
		} `json:"segments"`
	} `json:"itineraries,omitempty"`
}

type FlightPrice struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type Hotel struct {
	Name     string `json:"name"`
	HotelID  string `json:"hotelId"`
	IataCode string `json:"iataCode,omitempty"`
	GeoCode  *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"geoCode,omitempty"`
}

func (c *AmadeusClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.APIKey)
	form.Set("client_secret", c.APISecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %v", err)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tok); err != nil || tok.AccessToken == "" {
		return "", fmt.Errorf("no access token in response: %s", truncate(string(body), 200))
	}

	c.token = tok.AccessToken
	// Renew a minute early so in-flight calls never race expiry.
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)
	return c.token, nil
}

func (c *AmadeusClient) SearchFlights(ctx context.Context, origin, destination, departureDate string, adults int) (*FlightOffers, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("originLocationCode", origin)
	params.Set("destinationLocationCode", destination)
	params.Set("departureDate", departureDate)
	params.Set("adults", strconv.Itoa(adults))
	params.Set("currencyCode", "USD")
	params.Set("max", "3")

	var offers FlightOffers
	headers := map[string]string{"Authorization": "Bearer " + token}
	if err := getJSON(ctx, c.client, c.BaseURL+"/v2/shopping/flight-offers", params, headers, &offers); err != nil {
		return nil, err
	}
	return &offers, nil
}

func (c *AmadeusClient) SearchHotels(ctx context.Context, cityCode string) ([]Hotel, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("cityCode", cityCode)

	var data struct {
		Data []Hotel `json:"data"`
	}
	headers := map[string]string{"Authorization": "Bearer " + token}
	if err := getJSON(ctx, c.client, c.BaseURL+"/v1/reference-data/locations/hotels/by-city", params, headers, &data); err != nil {
		return nil, err
	}
	if data.Data == nil {
		return nil, errors.New("no hotel data returned")
	}
	return data.Data, nil
}
