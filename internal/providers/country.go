package providers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// CountryClient looks up country facts from the REST Countries API.
// No credentials needed.
type CountryClient struct {
	BaseURL string
	client  *http.Client
}

func NewCountryClient() *CountryClient {
	return &CountryClient{
		BaseURL: "https://restcountries.com/v3.1",
		client:  newHTTPClient(),
	}
}

type Country struct {
	Name struct {
		Common   string `json:"common"`
		Official string `json:"official"`
	} `json:"name"`
	Capital    []string `json:"capital,omitempty"`
	Region     string   `json:"region,omitempty"`
	Subregion  string   `json:"subregion,omitempty"`
	Population int64    `json:"population,omitempty"`
	Currencies map[string]struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"currencies,omitempty"`
	Languages map[string]string `json:"languages,omitempty"`
	Timezones []string          `json:"timezones,omitempty"`
}

func (c *CountryClient) Lookup(ctx context.Context, name string) (*Country, error) {
	var countries []Country
	endpoint := c.BaseURL + "/name/" + url.PathEscape(name)
	if err := getJSON(ctx, c.client, endpoint, nil, nil, &countries); err != nil {
		return nil, errors.New("country data not available")
	}
	if len(countries) == 0 {
		return nil, errors.New("country data not available")
	}
	return &countries[0], nil
}
