// Package export turns generated itinerary text into structured form and
// renders it to a document.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Itinerary is the structured shape the batch JSON prompt asks for.
type Itinerary struct {
	DayWisePlan     []DayPlan `json:"day_wise_plan"`
	WeatherSummary  string    `json:"weather_summary,omitempty"`
	TopAttractions  []string  `json:"top_attractions,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
}

type DayPlan struct {
	Day       int    `json:"day"`
	Morning   string `json:"morning,omitempty"`
	Afternoon string `json:"afternoon,omitempty"`
	Evening   string `json:"evening,omitempty"`
	Meals     string `json:"meals,omitempty"`
	EstCost   string `json:"est_cost,omitempty"`
}

// Result carries either the parsed itinerary or, when the text is not
// valid structured output, the raw text with a parse-error marker so the
// caller can still display something.
type Result struct {
	Itinerary *Itinerary
	Raw       string
	Err       string
}

// Parse attempts to read generated text as an itinerary JSON document.
// Markdown code fences are stripped first; engines often wrap JSON in them.
func Parse(text string) Result {
	cleaned := stripFences(strings.TrimSpace(text))

	var it Itinerary
	if err := json.Unmarshal([]byte(cleaned), &it); err != nil {
		return Result{
			Raw: text,
			Err: fmt.Sprintf("failed to parse generated output: %v", err),
		}
	}
	return Result{Itinerary: &it, Raw: text}
}

func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// Drop the opening fence line (``` or ```json) and a trailing fence.
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
