package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"downtime-mcs/cmd/mockgen/engine"
)

func main() {
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, sparse, chaos")
	distribution := flag.String("distribution", "uniform", "Value distribution: uniform, weibull")
	out := flag.String("out", "./equipment.jsonl", "Output JSONL snapshot")
	count := flag.Int("count", 50, "Number of equipment items to generate")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:     *scenario,
		Distribution: *distribution,
		Count:        *count,
		Seed:         *seed,
	}

	fmt.Printf("Generating scenario '%s' (Distribution: %s, Count: %d, Seed: %d) to %s...\n", cfg.Scenario, cfg.Distribution, cfg.Count, cfg.Seed, *out)

	if err := engine.Save(*out, engine.Generate(cfg)); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
