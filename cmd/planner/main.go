package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cargoroute/cargoroute_core/internal/config"
	"github.com/cargoroute/cargoroute_core/internal/models"
	"github.com/cargoroute/cargoroute_core/internal/planner"
)

func main() {
	source := flag.String("from", "", "Source location (required)")
	destination := flag.String("to", "", "Destination location (required)")
	weight := flag.Float64("weight", 0, "Cargo weight in kg (required)")
	goods := flag.Int("goods", 1, "Goods type: 1=standard 2=perishable 3=hazardous 4=fragile 5=oversized 6=high_value")
	priority := flag.String("priority", "balanced", "Optimization priority: cost, time, eco, balanced")
	timeout := flag.Duration("timeout", 5*time.Minute, "Planning timeout")

	flag.Parse()

	if *source == "" || *destination == "" || *weight <= 0 {
		fmt.Println("Usage: cargoroute-plan --from=<location> --to=<location> --weight=<kg> [--goods=1..6] [--priority=balanced]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.Load()

	p, err := planner.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize planner: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	plan, err := p.Plan(ctx, planner.Request{
		Source:        *source,
		Destination:   *destination,
		CargoWeightKg: *weight,
		GoodsType:     models.ParseGoodsType(*goods),
		Priority:      models.ParsePriority(*priority),
	})
	if err != nil {
		log.Fatalf("Planning failed: %v", err)
	}

	printPlan(plan, time.Since(start))
}

func printPlan(plan *planner.Plan, elapsed time.Duration) {
	fmt.Printf("\n%s\n", strings.Repeat("=", 70))
	fmt.Printf("Route options: %s -> %s\n", plan.Source, plan.Destination)
	fmt.Printf("Cargo: %.1f kg %s, priority %s (computed in %s)\n",
		plan.CargoWeightKg, plan.GoodsType, plan.Priority, elapsed.Round(time.Millisecond))
	fmt.Println(strings.Repeat("=", 70))

	if len(plan.Options) == 0 {
		fmt.Println("\nNo viable routes found.")
		return
	}

	for i, option := range plan.Options {
		fmt.Printf("\nOption %d: %s\n", i+1, option.Overview.Key())
		fmt.Printf("  Total cost:      %12.2f\n", option.Data.TotalCost)
		fmt.Printf("  Total time:      %12.2f hr\n", option.Data.TotalTime)
		fmt.Printf("  Road distance:   %12.2f km\n", option.Data.TotalDistance)
		fmt.Printf("  CO2 emissions:   %12.3f t\n", option.Data.TotalEmissions)
		if option.Data.GoodsTypeScore > 0 {
			fmt.Printf("  Goods score:     %12.2f\n", option.Data.GoodsTypeScore)
		}

		for _, leg := range option.Data.Legs {
			fmt.Printf("    %-6s %s -> %s", leg.Mode, leg.Start, leg.End)
			fmt.Printf("  (%.1f hr", leg.TimeHr)
			if leg.DistanceKm > 0 {
				fmt.Printf(", %.1f km", leg.DistanceKm)
			}
			fmt.Printf(", cost %.2f)\n", leg.TotalCost)
		}
	}

	if len(plan.Containers) > 0 {
		fmt.Println("\nContainer recommendations:")
		for _, rec := range plan.Containers {
			status := ""
			if rec.Exceeded {
				status = "  [capacity exceeded, split the shipment]"
			}
			fmt.Printf("  %-6s %s (%.0f kg)%s\n", rec.Mode, rec.ContainerType, rec.CapacityKg, status)
		}
	}

	fmt.Println()
}
