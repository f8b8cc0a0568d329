// Command console is a terminal moderation queue for story admins.
package main

import (
	"flag"
	"fmt"
	"os"

	"storyhub/cmd/console/ui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	server := flag.String("server", "http://127.0.0.1:8001", "Backend base URL")
	flag.Parse()

	p := tea.NewProgram(ui.NewRootModel(*server), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "console: %v\n", err)
		os.Exit(1)
	}
}
