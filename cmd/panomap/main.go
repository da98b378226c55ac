package main

import (
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"panomap/internal/config"
	"panomap/internal/tui"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		csvURL     = flag.String("csv", "", "CSV source URL or path (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *csvURL != "" {
		cfg.CSVURL = *csvURL
	}

	m := tui.New(cfg)
	if err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Start(); err != nil {
		log.Fatal(err)
	}
}
