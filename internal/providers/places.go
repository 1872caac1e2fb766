package providers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// PlacesClient searches points of interest through SerpAPI's Google Maps engine.
type PlacesClient struct {
	APIKey  string
	BaseURL string
	client  *http.Client
}

func NewPlacesClient(apiKey string) *PlacesClient {
	return &PlacesClient{
		APIKey:  apiKey,
		BaseURL: "https://serpapi.com/search",
		client:  newHTTPClient(),
	}
}

type Place struct {
	Name    string          `json:"name"`
	Address string          `json:"address,omitempty"`
	Rating  float64         `json:"rating,omitempty"`
	Reviews int             `json:"reviews,omitempty"`
	Type    string          `json:"type,omitempty"`
	GPS     *GPSCoordinates `json:"gps_coordinates,omitempty"`
}

type GPSCoordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type serpMapsResponse struct {
	LocalResults []struct {
		Title   string          `json:"title"`
		Address string          `json:"address"`
		Rating  float64         `json:"rating"`
		Reviews int             `json:"reviews"`
		Type    string          `json:"type"`
		GPS     *GPSCoordinates `json:"gps_coordinates"`
	} `json:"local_results"`
	Error string `json:"error"`
}

func (c *PlacesClient) Search(ctx context.Context, query, location string, limit int) ([]Place, error) {
	params := url.Values{}
	params.Set("engine", "google_maps")
	params.Set("q", query)
	params.Set("location", location)
	params.Set("hl", "en")
	params.Set("type", "search")
	params.Set("api_key", c.APIKey)

	var data serpMapsResponse
	if err := getJSON(ctx, c.client, c.BaseURL, params, nil, &data); err != nil {
		return nil, err
	}
	if len(data.LocalResults) == 0 {
		if data.Error != "" {
			return nil, errors.New(data.Error)
		}
		return nil, errors.New("no results found")
	}

	results := make([]Place, 0, limit)
	for _, r := range data.LocalResults {
		if len(results) >= limit {
			break
		}
		results = append(results, Place{
			Name:    r.Title,
			Address: r.Address,
			Rating:  r.Rating,
			Reviews: r.Reviews,
			Type:    r.Type,
			GPS:     r.GPS,
		})
	}
	return results, nil
}
