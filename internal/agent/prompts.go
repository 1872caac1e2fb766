package agent

import (
	"encoding/json"
	"strings"

	"github.com/tmc/langchaingo/prompts"
)

// freeChatPrompt drives conversational mode: no pipeline data, plain text out.
var freeChatPrompt = prompts.PromptTemplate{
	Template: `You are a professional travel planner.

User Request:
{{.user_prompt}}

Generate a helpful, friendly itinerary with:
- Travelling options (flights, trains, bus)
- Day-wise plan (morning/afternoon/evening)
- Food & attraction suggestions
- Weather/travel details
- Rough budget caveats

Return plain text (not JSON).`,
	InputVariables: []string{"user_prompt"},
	TemplateFormat: prompts.TemplateFormatGoTemplate,
}

// structuredJSONPrompt is the batch structured-mode template; the engine
// is asked for a machine-parseable day-wise plan.
var structuredJSONPrompt = prompts.PromptTemplate{
	Template: `You are an intelligent travel planner. Using the structured data below, generate a complete {{.days}}-day itinerary for {{.destination}}, formatted as JSON.

Structured Data:
{{.structured_data}}

Additional user request: {{.user_prompt}}

Rules:
- If flight data is empty, suggest nearest airport & road/train options.
- If hotel data missing, suggest budget, mid-range, luxury options.
- Consider user interests: {{.interests}}.
- Ensure costs are in {{.target_currency}}.
- Provide practical weather notes.

Output format:
{
  "day_wise_plan": [
    {
      "day": 1,
      "morning": "...",
      "afternoon": "...",
      "evening": "...",
      "meals": "...",
      "est_cost": "..."
    }
  ],
  "weather_summary": "...",
  "top_attractions": ["...", "..."],
  "recommendations": ["...", "..."]
}`,
	InputVariables: []string{"days", "destination", "structured_data", "user_prompt", "interests", "target_currency"},
	TemplateFormat: prompts.TemplateFormatGoTemplate,
}

// structuredMarkdownPrompt is the streaming structured-mode template;
// Markdown reads better than JSON while fragments arrive.
var structuredMarkdownPrompt = prompts.PromptTemplate{
	Template: `You are an intelligent travel planner. Using the structured data below, generate a complete {{.days}}-day itinerary for {{.destination}}.

Structured Data:
{{.structured_data}}

Additional user request: {{.user_prompt}}

Guidelines:
- Day-wise detailed plan (morning/afternoon/evening), food spots, transport notes
- A short weather summary and practical tips
- Rough budget remarks in {{.target_currency}}

Return clear Markdown (NOT JSON).`,
	InputVariables: []string{"days", "destination", "structured_data", "user_prompt", "target_currency"},
	TemplateFormat: prompts.TemplateFormatGoTemplate,
}

func formatFreeChat(userPrompt string) (string, error) {
	return freeChatPrompt.Format(map[string]any{"user_prompt": userPrompt})
}

func structuredValues(snapshot *Snapshot, params TripParams) map[string]any {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		data = []byte("{}")
	}

	days := params.Days
	if days <= 0 {
		days = 3
	}
	target := params.TargetCurrency
	if target == "" {
		target = "USD"
	}

	return map[string]any{
		"days":            days,
		"destination":     params.Destination,
		"structured_data": string(data),
		"user_prompt":     params.UserPrompt,
		"interests":       strings.Join(params.Interests, ", "),
		"target_currency": target,
	}
}

func formatStructuredJSON(snapshot *Snapshot, params TripParams) (string, error) {
	return structuredJSONPrompt.Format(structuredValues(snapshot, params))
}

func formatStructuredMarkdown(snapshot *Snapshot, params TripParams) (string, error) {
	return structuredMarkdownPrompt.Format(structuredValues(snapshot, params))
}
