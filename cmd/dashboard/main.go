// Command dashboard renders the stats dashboard page once and writes the
// resulting HTML to stdout or a file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"anoa.com/playstats/internal/config"
	dashboardService "anoa.com/playstats/internal/modules/dashboard/service"
)

func main() {
	out := flag.String("out", "", "write the page to this file instead of stdout")
	endpoint := flag.String("endpoint", "", "stats endpoint URL (defaults to STATS_ENDPOINT_URL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *endpoint != "" {
		cfg.EndpointURL = *endpoint
	}

	page, err := dashboardService.DefaultPage()
	if err != nil {
		log.Fatalf("failed to load page: %v", err)
	}

	renderer := dashboardService.NewRenderer(page, dashboardService.NewClient(cfg.EndpointURL, cfg.DashboardTimeout))
	result := renderer.Load(context.Background())

	markup, err := page.HTML()
	if err != nil {
		log.Fatalf("failed to serialize page: %v", err)
	}

	if *out == "" {
		fmt.Println(markup)
	} else if err := os.WriteFile(*out, []byte(markup), 0o644); err != nil {
		log.Fatalf("failed to write %s: %v", *out, err)
	}

	if result.State == dashboardService.StateError {
		os.Exit(1)
	}
}
