package main

import (
	"flag"
	"fmt"
	"labelops-mcp/cmd/mockgen/engine"
	"os"
	"time"
)

func main() {
	scenario := flag.String("scenario", "steady", "Scenario to generate: steady, ramp, churn")
	trainers := flag.Int("trainers", 12, "Number of trainers to simulate")
	days := flag.Int("days", 45, "Number of calendar days to cover")
	outDir := flag.String("out", "./cache", "Output directory for cache files")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario: *scenario,
		Trainers: *trainers,
		Days:     *days,
		Now:      time.Now(),
	}

	fmt.Printf("Generating scenario '%s' (%d trainers, %d days) to %s...\n", cfg.Scenario, cfg.Trainers, cfg.Days, *outDir)

	trainerRecs, reviewerRecs, hierarchy := engine.Generate(cfg)

	if err := engine.Save(*outDir, 1, trainerRecs, reviewerRecs); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done. %d trainer records, %d reviewer records across %d pods.\n",
		len(trainerRecs), len(reviewerRecs), len(hierarchy.PodProject))
}
