// Package agent holds the trip data-gathering pipeline and the
// generation orchestrator that turns the gathered data into an itinerary.
package agent

import (
	"github.com/priyansh/yatra/internal/providers"
)

// TripParams are the caller-supplied inputs describing the desired trip.
// All fields are optional; a step whose input is missing records an
// error marker for its own key and the pipeline carries on.
type TripParams struct {
	Origin          string   `json:"origin,omitempty"`
	Destination     string   `json:"destination,omitempty"`
	DestinationCode string   `json:"destination_code,omitempty"`
	Country         string   `json:"country,omitempty"`
	Days            int      `json:"days,omitempty"`
	Date            string   `json:"date,omitempty"`
	BudgetCurrency  string   `json:"budget_currency,omitempty"`
	TargetCurrency  string   `json:"target_currency,omitempty"`
	Interests       []string `json:"interests,omitempty"`
	UserPrompt      string   `json:"user_prompt,omitempty"`
}

// Research holds attraction listings plus passages retrieved from the
// travel-notes corpus.
type Research struct {
	Attractions   []providers.Place `json:"attractions,omitempty"`
	CulturalNotes []string          `json:"cultural_notes,omitempty"`
	Note          string            `json:"note,omitempty"`
	Error         string            `json:"error,omitempty"`
}

type Weather struct {
	Forecast []providers.ForecastDay `json:"forecast,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

// ExchangeResult mirrors the provider rate but can carry an error marker
// in its place, nested under the budget's exchange_rate key.
type ExchangeResult struct {
	Base   string  `json:"base,omitempty"`
	Target string  `json:"target,omitempty"`
	Rate   float64 `json:"rate,omitempty"`
	Error  string  `json:"error,omitempty"`
}

type Budget struct {
	ExchangeRate ExchangeResult    `json:"exchange_rate"`
	Categories   map[string]string `json:"categories"`
}

// Transport carries either flight offers, an advisory note when no
// flights exist, or an error marker when the search itself failed.
// The advisory is deliberately not an error: the generation prompt
// treats "no flights, take the road" as normal planning input.
type Transport struct {
	Flights        *providers.FlightOffers `json:"flights"`
	LocalTransport []string                `json:"local_transport,omitempty"`
	Note           string                  `json:"note,omitempty"`
	Error          string                  `json:"error,omitempty"`
}

type Accommodation struct {
	Hotels []providers.Hotel `json:"hotels,omitempty"`
	Error  string            `json:"error,omitempty"`
}

type Activities struct {
	Places []providers.PlaceResult `json:"places,omitempty"`
	Query  string                  `json:"query,omitempty"`
	Error  string                  `json:"error,omitempty"`
}

type CountryInfo struct {
	Info  *providers.Country `json:"info,omitempty"`
	Error string             `json:"error,omitempty"`
}

type Media struct {
	Photos []string `json:"photos,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// TripState is the mutable record threaded through the pipeline. Each
// step owns exactly one field; after Run every field is non-nil, holding
// either data or an error marker.
type TripState struct {
	Params TripParams

	Research      *Research
	Weather       *Weather
	Budget        *Budget
	Transport     *Transport
	Accommodation *Accommodation
	Activities    *Activities
	Country       *CountryInfo
	Media         *Media

	Structured *Snapshot
}

// Snapshot is the read-only projection of the eight data-bearing keys
// that the generation engine sees.
type Snapshot struct {
	Research      *Research      `json:"research"`
	Weather       *Weather       `json:"weather"`
	Budget        *Budget        `json:"budget"`
	Transport     *Transport     `json:"transport"`
	Accommodation *Accommodation `json:"accommodation"`
	Activities    *Activities    `json:"activities"`
	CountryInfo   *CountryInfo   `json:"country_info"`
	Media         *Media         `json:"media"`
}

func (s *TripState) snapshot() *Snapshot {
	return &Snapshot{
		Research:      s.Research,
		Weather:       s.Weather,
		Budget:        s.Budget,
		Transport:     s.Transport,
		Accommodation: s.Accommodation,
		Activities:    s.Activities,
		CountryInfo:   s.Country,
		Media:         s.Media,
	}
}

// stepError reports the error marker recorded for a step, empty when the
// step produced data. Used for logging only.
func (s *TripState) stepError(step string) string {
	switch step {
	case stepResearch:
		if s.Research != nil {
			return s.Research.Error
		}
	case stepWeather:
		if s.Weather != nil {
			return s.Weather.Error
		}
	case stepBudget:
		if s.Budget != nil {
			return s.Budget.ExchangeRate.Error
		}
	case stepTransport:
		if s.Transport != nil {
			return s.Transport.Error
		}
	case stepAccommodation:
		if s.Accommodation != nil {
			return s.Accommodation.Error
		}
	case stepActivities:
		if s.Activities != nil {
			return s.Activities.Error
		}
	case stepCountry:
		if s.Country != nil {
			return s.Country.Error
		}
	case stepMedia:
		if s.Media != nil {
			return s.Media.Error
		}
	}
	return ""
}
