package providers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// UnsplashClient fetches landscape destination photos from Unsplash.
type UnsplashClient struct {
	APIKey  string
	BaseURL string
	client  *http.Client
}

func NewUnsplashClient(apiKey string) *UnsplashClient {
	return &UnsplashClient{
		APIKey:  apiKey,
		BaseURL: "https://api.unsplash.com",
		client:  newHTTPClient(),
	}
}

// Photos returns up to count image URLs for the query.
func (c *UnsplashClient) Photos(ctx context.Context, query string, count int) ([]string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(count))
	params.Set("orientation", "landscape")
	params.Set("client_id", c.APIKey)

	var data struct {
		Results []struct {
			URLs struct {
				Regular string `json:"regular"`
			} `json:"urls"`
		} `json:"results"`
	}
	if err := getJSON(ctx, c.client, c.BaseURL+"/search/photos", params, nil, &data); err != nil {
		return nil, err
	}

	photos := make([]string, 0, len(data.Results))
	for _, r := range data.Results {
		photos = append(photos, r.URLs.Regular)
	}
	return photos, nil
}
