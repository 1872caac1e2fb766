package providers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// ExchangeClient fetches real-time currency rates from exchangeratesapi.io.
type ExchangeClient struct {
	APIKey  string
	BaseURL string
	client  *http.Client
}

func NewExchangeClient(apiKey string) *ExchangeClient {
	return &ExchangeClient{
		APIKey:  apiKey,
		BaseURL: "http://api.exchangeratesapi.io/v1",
		client:  newHTTPClient(),
	}
}

type ExchangeRate struct {
	Base   string  `json:"base"`
	Target string  `json:"target"`
	Rate   float64 `json:"rate"`
}

type exchangeResponse struct {
	Rates map[string]float64 `json:"rates"`
	Error struct {
		Info string `json:"info"`
	} `json:"error"`
}

// Rate returns the target-per-base rate. The provider quotes everything
// against EUR, so the rate is derived from the two symbols.
func (c *ExchangeClient) Rate(ctx context.Context, base, target string) (ExchangeRate, error) {
	params := url.Values{}
	params.Set("access_key", c.APIKey)
	params.Set("symbols", base+","+target)

	var data exchangeResponse
	if err := getJSON(ctx, c.client, c.BaseURL+"/latest", params, nil, &data); err != nil {
		return ExchangeRate{}, err
	}
	if len(data.Rates) == 0 {
		if data.Error.Info != "" {
			return ExchangeRate{}, errors.New(data.Error.Info)
		}
		return ExchangeRate{}, errors.New("exchange rate data not available")
	}

	baseRate, okBase := data.Rates[base]
	targetRate, okTarget := data.Rates[target]
	if !okBase || !okTarget || baseRate == 0 {
		return ExchangeRate{}, errors.New("exchange rate data not available")
	}

	return ExchangeRate{Base: base, Target: target, Rate: targetRate / baseRate}, nil
}
