package providers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
)

// GooglePlacesClient runs text searches against the Google Places API.
type GooglePlacesClient struct {
	APIKey  string
	BaseURL string
	Radius  int
	client  *http.Client
}

func NewGooglePlacesClient(apiKey string) *GooglePlacesClient {
	return &GooglePlacesClient{
		APIKey:  apiKey,
		BaseURL: "https://maps.googleapis.com/maps/api/place",
		Radius:  5000,
		client:  newHTTPClient(),
	}
}

type PlaceResult struct {
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address,omitempty"`
	Rating           float64  `json:"rating,omitempty"`
	UserRatingsTotal int      `json:"user_ratings_total,omitempty"`
	Types            []string `json:"types,omitempty"`
}

// TextSearch searches places by free-text query near a "lat,lng" location hint.
func (c *GooglePlacesClient) TextSearch(ctx context.Context, query, location string) ([]PlaceResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("location", location)
	params.Set("radius", strconv.Itoa(c.Radius))
	params.Set("key", c.APIKey)

	var data struct {
		Results      []PlaceResult `json:"results"`
		Status       string        `json:"status"`
		ErrorMessage string        `json:"error_message"`
	}
	if err := getJSON(ctx, c.client, c.BaseURL+"/textsearch/json", params, nil, &data); err != nil {
		return nil, err
	}
	if data.Status != "OK" && data.Status != "ZERO_RESULTS" {
		if data.ErrorMessage != "" {
			return nil, errors.New(data.ErrorMessage)
		}
		return nil, errors.New("places search failed: " + data.Status)
	}
	return data.Results, nil
}
