package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// WeatherClient fetches day-by-day forecasts from WeatherAPI.com.
type WeatherClient struct {
	APIKey  string
	BaseURL string
	client  *http.Client
}

func NewWeatherClient(apiKey string) *WeatherClient {
	return &WeatherClient{
		APIKey:  apiKey,
		BaseURL: "http://api.weatherapi.com/v1",
		client:  newHTTPClient(),
	}
}

// ForecastDay is one day of the forecast, flattened from the provider shape.
type ForecastDay struct {
	Date      string  `json:"date"`
	AvgTempC  float64 `json:"avg_temp_c"`
	Condition string  `json:"condition"`
	Icon      string  `json:"icon"`
}

type weatherResponse struct {
	Forecast struct {
		Forecastday []struct {
			Date string `json:"date"`
			Day  struct {
				AvgtempC  float64 `json:"avgtemp_c"`
				Condition struct {
					Text string `json:"text"`
					Icon string `json:"icon"`
				} `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *WeatherClient) Forecast(ctx context.Context, city string, days int) ([]ForecastDay, error) {
	params := url.Values{}
	params.Set("key", c.APIKey)
	params.Set("q", city)
	params.Set("days", strconv.Itoa(days))
	params.Set("aqi", "no")
	params.Set("alerts", "no")

	var data weatherResponse
	if err := getJSON(ctx, c.client, c.BaseURL+"/forecast.json", params, nil, &data); err != nil {
		// Provider error messages ride along inside the status error body.
		return nil, fmt.Errorf("weather data not available: %v", err)
	}
	if len(data.Forecast.Forecastday) == 0 {
		if data.Error.Message != "" {
			return nil, errors.New(data.Error.Message)
		}
		return nil, errors.New("weather data not available")
	}

	forecast := make([]ForecastDay, 0, len(data.Forecast.Forecastday))
	for _, d := range data.Forecast.Forecastday {
		forecast = append(forecast, ForecastDay{
			Date:      d.Date,
			AvgTempC:  d.Day.AvgtempC,
			Condition: d.Day.Condition.Text,
			Icon:      d.Day.Condition.Icon,
		})
	}
	return forecast, nil
}
