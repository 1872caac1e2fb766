package observability

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
	colorBold  = "\033[1m"
)

func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return w
}

// PrintBanner writes the startup banner, centered to the terminal.
func PrintBanner(appName, version string) {
	if appName == "" {
		appName = "yatra"
	}
	line := fmt.Sprintf("%s %s — travel itinerary planner", appName, version)
	width := termWidth()
	pad := (width - len(line)) / 2
	if pad < 0 {
		pad = 0
	}
	fmt.Println(colorCyan + strings.Repeat("─", width) + colorReset)
	fmt.Println(strings.Repeat(" ", pad) + colorBold + line + colorReset)
	fmt.Println(colorCyan + strings.Repeat("─", width) + colorReset)
}
