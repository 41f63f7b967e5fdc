// Probe program to check score extraction against live result pages.
// Runs both extractor strategies so markup changes show up side by side.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/kampsync/internal/extract"
	"github.com/ppiankov/kampsync/internal/logging"
	"github.com/ppiankov/kampsync/internal/model"
	"github.com/ppiankov/kampsync/internal/pipeline"
)

func main() {
	urls := os.Args[1:]
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "usage: probe-result-page <result-url>...")
		os.Exit(2)
	}

	pattern, err := extract.NewPatternExtractor(extract.DefaultScorePattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pattern extractor: %v\n", err)
		os.Exit(1)
	}

	strategies := []struct {
		name      string
		extractor extract.ScoreExtractor
	}{
		{"selector", extract.NewSelectorExtractor(extract.DefaultScoreContainer, extract.DefaultScoreCell)},
		{"pattern", pattern},
	}

	logger := logging.New(logging.LevelDebug, "console")
	fetcher := pipeline.NewFetcher(model.HTTPConfig{UserAgent: model.DefaultUserAgent}, model.DefaultResultTimeout, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, u := range urls {
		fmt.Printf("Probing: %s\n", u)
		fmt.Println(strings.Repeat("-", 60))

		for _, s := range strategies {
			res := pipeline.NewResultFetcher(fetcher, s.extractor, logger).Fetch(ctx, u)
			if res == nil {
				fmt.Printf("  %-9s no result\n", s.name)
				continue
			}
			fmt.Printf("  %-9s match %s: %s\n", s.name, res.MatchID, res.Result)
		}
		fmt.Println()
	}
}
