package export

import (
	"fmt"
	"io"
	"strings"
)

// WriteMarkdown renders a parse result as a Markdown document. A parse
// failure falls back to the raw generated text, so the caller always
// gets a readable file.
func WriteMarkdown(w io.Writer, title string, res Result) error {
	var b strings.Builder

	if title == "" {
		title = "Travel Itinerary"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if res.Itinerary == nil {
		b.WriteString(res.Raw)
		if !strings.HasSuffix(res.Raw, "\n") {
			b.WriteString("\n")
		}
		_, err := io.WriteString(w, b.String())
		return err
	}

	it := res.Itinerary
	for _, day := range it.DayWisePlan {
		fmt.Fprintf(&b, "## Day %d\n\n", day.Day)
		writeSection(&b, "Morning", day.Morning)
		writeSection(&b, "Afternoon", day.Afternoon)
		writeSection(&b, "Evening", day.Evening)
		writeSection(&b, "Meals", day.Meals)
		writeSection(&b, "Estimated Cost", day.EstCost)
		b.WriteString("\n")
	}

	if it.WeatherSummary != "" {
		fmt.Fprintf(&b, "## Weather\n\n%s\n\n", it.WeatherSummary)
	}
	if len(it.TopAttractions) > 0 {
		b.WriteString("## Top Attractions\n\n")
		for _, a := range it.TopAttractions {
			fmt.Fprintf(&b, "- %s\n", a)
		}
		b.WriteString("\n")
	}
	if len(it.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, r := range it.Recommendations {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, label, content string) {
	if content == "" {
		return
	}
	fmt.Fprintf(b, "**%s:** %s\n\n", label, content)
}
