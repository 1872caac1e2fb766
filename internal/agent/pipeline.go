package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/priyansh/yatra/internal/observability"
	"github.com/priyansh/yatra/internal/providers"
)

// Step names, in execution order.
const (
	stepResearch      = "research"
	stepWeather       = "weather"
	stepBudget        = "budget"
	stepTransport     = "transport"
	stepAccommodation = "accommodation"
	stepActivities    = "activities"
	stepCountry       = "country"
	stepMedia         = "media"
	stepCoordinator   = "coordinator"
)

// Interfaces over the provider clients, so tests can substitute stubs.

type WeatherService interface {
	Forecast(ctx context.Context, city string, days int) ([]providers.ForecastDay, error)
}

type PlacesService interface {
	Search(ctx context.Context, query, location string, limit int) ([]providers.Place, error)
}

type ExchangeService interface {
	Rate(ctx context.Context, base, target string) (providers.ExchangeRate, error)
}

type TravelService interface {
	SearchFlights(ctx context.Context, origin, destination, departureDate string, adults int) (*providers.FlightOffers, error)
	SearchHotels(ctx context.Context, cityCode string) ([]providers.Hotel, error)
}

type ActivityService interface {
	TextSearch(ctx context.Context, query, location string) ([]providers.PlaceResult, error)
}

type CountryService interface {
	Lookup(ctx context.Context, name string) (*providers.Country, error)
}

type PhotoService interface {
	Photos(ctx context.Context, query string, count int) ([]string, error)
}

// DocumentRetriever returns relevant passages from the travel-notes
// corpus. It never fails; an unavailable index yields nothing.
type DocumentRetriever interface {
	Query(ctx context.Context, text string) []string
}

// WebSearcher is the keyless fallback for the research step.
type WebSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Destinations without an explicit IATA code resolve through this table,
// falling back to the destination name itself.
var destinationAirports = map[string]string{
	"Manali":     "IXC",
	"Shimla":     "SLV",
	"Ooty":       "CJB",
	"Darjeeling": "IXB",
}

// Pipeline runs the nine data-gathering steps in a fixed order over one
// TripState. A failing step records an error marker under its own key
// and never aborts the steps after it.
type Pipeline struct {
	Weather   WeatherService
	Places    PlacesService
	Exchange  ExchangeService
	Travel    TravelService
	Activity  ActivityService
	Country   CountryService
	Photos    PhotoService
	Retriever DocumentRetriever
	WebSearch WebSearcher

	Logger *observability.Logger
}

// Run executes all steps sequentially and returns the state with every
// step field populated and the structured snapshot attached.
func (p *Pipeline) Run(ctx context.Context, params TripParams) *TripState {
	st := &TripState{Params: params}

	steps := []struct {
		name string
		fn   func(context.Context, *TripState)
	}{
		{stepResearch, p.researchStep},
		{stepWeather, p.weatherStep},
		{stepBudget, p.budgetStep},
		{stepTransport, p.transportStep},
		{stepAccommodation, p.accommodationStep},
		{stepActivities, p.activitiesStep},
		{stepCountry, p.countryStep},
		{stepMedia, p.mediaStep},
	}

	for _, s := range steps {
		s.fn(ctx, st)
		p.Logger.LogStep(s.name, st.stepError(s.name))
	}

	// Coordinator: pure aggregation, cannot fail.
	st.Structured = st.snapshot()
	p.Logger.LogStep(stepCoordinator, "")

	return st
}

func (p *Pipeline) researchStep(ctx context.Context, st *TripState) {
	dest := st.Params.Destination
	if dest == "" {
		st.Research = &Research{Error: "no destination provided"}
		return
	}

	res := &Research{}

	attractions, err := p.Places.Search(ctx, "attractions", dest, 5)
	if err != nil {
		// Degrade to a partial result: try the keyless web search, and
		// failing that record an advisory note instead of aborting.
		note := fmt.Sprintf("places search failed: %v", err)
		if p.WebSearch != nil {
			if summary, werr := p.WebSearch.Search(ctx, "top attractions and travel info for "+dest); werr == nil {
				note = summary
			}
		}
		res.Note = note
	} else {
		res.Attractions = attractions
	}

	if p.Retriever != nil {
		query := "Top attractions and travel info for " + dest
		res.CulturalNotes = p.Retriever.Query(ctx, query)
		p.Logger.LogRetrieval(query, len(res.CulturalNotes))
	}

	st.Research = res
}

func (p *Pipeline) weatherStep(ctx context.Context, st *TripState) {
	dest := st.Params.Destination
	if dest == "" {
		st.Weather = &Weather{Error: "no destination provided"}
		return
	}

	days := st.Params.Days
	if days <= 0 {
		days = 3
	}

	forecast, err := p.Weather.Forecast(ctx, dest, days)
	if err != nil {
		st.Weather = &Weather{Error: err.Error()}
		return
	}
	st.Weather = &Weather{Forecast: forecast}
}

func (p *Pipeline) budgetStep(ctx context.Context, st *TripState) {
	base := st.Params.BudgetCurrency
	if base == "" {
		base = "USD"
	}
	target := st.Params.TargetCurrency
	if target == "" {
		target = "USD"
	}

	var exchange ExchangeResult
	rate, err := p.Exchange.Rate(ctx, base, target)
	if err != nil {
		exchange = ExchangeResult{Error: fmt.Sprintf("exchange API failed: %v", err)}
	} else {
		exchange = ExchangeResult{Base: rate.Base, Target: rate.Target, Rate: rate.Rate}
	}

	// The step itself always succeeds; a failed lookup only marks the
	// nested exchange_rate and the category placeholders stand.
	st.Budget = &Budget{
		ExchangeRate: exchange,
		Categories: map[string]string{
			"flights":    "from transport agent",
			"stay":       "from accommodation agent",
			"food":       "avg $20/day",
			"activities": "variable",
		},
	}
}

func (p *Pipeline) transportStep(ctx context.Context, st *TripState) {
	origin := st.Params.Origin
	dest := st.Params.Destination
	if origin == "" || dest == "" {
		st.Transport = &Transport{Error: "origin/destination missing"}
		return
	}

	destCode := st.Params.DestinationCode
	if destCode == "" {
		if code, ok := destinationAirports[dest]; ok {
			destCode = code
		} else {
			destCode = dest
		}
	}

	offers, err := p.Travel.SearchFlights(ctx, origin, destCode, st.Params.Date, 1)
	if err != nil {
		st.Transport = &Transport{Error: fmt.Sprintf("flight search failed: %v", err)}
		return
	}

	if offers == nil || len(offers.Data) == 0 {
		// No flights is an advisory outcome, not a failure.
		st.Transport = &Transport{
			Note: fmt.Sprintf("No direct flights to %s. Suggest road/train from %s.", dest, origin),
		}
		return
	}

	st.Transport = &Transport{
		Flights:        offers,
		LocalTransport: []string{"cab", "bus", "rental bike"},
	}
}

func (p *Pipeline) accommodationStep(ctx context.Context, st *TripState) {
	cityCode := st.Params.DestinationCode
	if cityCode == "" {
		cityCode = st.Params.Destination
	}
	if cityCode == "" {
		st.Accommodation = &Accommodation{Error: "no destination code or city provided"}
		return
	}

	hotels, err := p.Travel.SearchHotels(ctx, cityCode)
	if err != nil {
		st.Accommodation = &Accommodation{Error: fmt.Sprintf("hotel search failed: %v", err)}
		return
	}
	st.Accommodation = &Accommodation{Hotels: hotels}
}

func (p *Pipeline) activitiesStep(ctx context.Context, st *TripState) {
	dest := st.Params.Destination

	subject := "popular"
	if len(st.Params.Interests) > 0 {
		subject = strings.Join(st.Params.Interests, " and ")
	}
	query := fmt.Sprintf("%s activities in %s", subject, dest)

	places, err := p.Activity.TextSearch(ctx, query, "0,0")
	if err != nil {
		st.Activities = &Activities{Query: query, Error: fmt.Sprintf("places search failed: %v", err)}
		return
	}
	st.Activities = &Activities{Query: query, Places: places}
}

func (p *Pipeline) countryStep(ctx context.Context, st *TripState) {
	country := st.Params.Country
	if country == "" {
		st.Country = &CountryInfo{Error: "no country provided"}
		return
	}

	info, err := p.Country.Lookup(ctx, country)
	if err != nil {
		st.Country = &CountryInfo{Error: fmt.Sprintf("country info failed: %v", err)}
		return
	}
	st.Country = &CountryInfo{Info: info}
}

func (p *Pipeline) mediaStep(ctx context.Context, st *TripState) {
	dest := st.Params.Destination
	if dest == "" {
		st.Media = &Media{Error: "no destination provided"}
		return
	}

	photos, err := p.Photos.Photos(ctx, dest, 3)
	if err != nil {
		st.Media = &Media{Error: fmt.Sprintf("photo fetch failed: %v", err)}
		return
	}
	st.Media = &Media{Photos: photos}
}
