package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"tripplanner/internal/ai"
	"tripplanner/internal/config"
	"tripplanner/internal/logger"
	"tripplanner/internal/modules/itinerary"
	"tripplanner/internal/modules/location"
	"tripplanner/internal/modules/offer"
	"tripplanner/internal/modules/planning"
	"tripplanner/internal/modules/preference"
	"tripplanner/internal/modules/suggestion"
	"tripplanner/internal/search"
)

func main() {
	start := flag.String("start", "2024-10-10", "start date (YYYY-MM-DD)")
	end := flag.String("end", "2024-10-15", "end date (YYYY-MM-DD)")
	budget := flag.Float64("budget", 1000, "total budget in USD")
	tripType := flag.String("type", "city", "trip type")
	origin := flag.String("origin", "", "origin city (defaults to planning.default_origin)")
	pick := flag.Int("pick", 0, "index of the option to build an itinerary for; -1 to skip")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	appLog := logger.NewStructured("warn", "console")

	prefs, err := preference.Parse(preference.RawPreferences{
		StartDate: *start, EndDate: *end, Budget: *budget, TripType: *tripType, Origin: *origin,
	}, cfg.Planning.DefaultOrigin)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	openai := ai.NewOpenAIClient(cfg.OpenAI)
	table, err := location.DefaultTable()
	if err != nil {
		log.Fatal(err)
	}
	timeout := cfg.Planning.CallTimeout()
	offers := offer.NewService(search.NewClient(cfg.SerpAPI), location.NewService(table, nil, appLog), timeout, appLog)

	destinations, err := suggestion.NewService(openai, cfg.Planning.SuggestionCount, timeout, appLog).Suggest(ctx, prefs)
	if err != nil {
		log.Fatalf("suggestions: %v", err)
	}
	fmt.Printf("Suggested: %v\n", destinations)

	res, err := planning.NewSelector(offers, cfg.Planning.MaxParallel, appLog).Select(ctx, prefs, destinations)
	for _, s := range res.Skipped {
		fmt.Printf("  skipped %-20s %s\n", s.Destination, s.Reason)
	}
	if err != nil {
		log.Fatalf("selection: %v", err)
	}
	for i, o := range res.Options {
		fmt.Printf("[%d] %-20s total %s (flights %s + %s, %s at %s/night)\n",
			i, o.Destination, o.TotalCost, o.OutboundFlight.Price, o.InboundFlight.Price, o.Hotel.Name, o.Hotel.NightlyRate)
	}

	if *pick < 0 {
		return
	}
	plan, err := itinerary.NewService(openai, openai, timeout, appLog).Generate(ctx, prefs, res.Options, *pick)
	if err != nil {
		log.Fatalf("itinerary: %v", err)
	}
	fmt.Printf("\n%s\n\n", plan.Itinerary)
	for _, url := range plan.Images {
		fmt.Println(url)
	}
}
