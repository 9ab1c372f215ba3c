// watchlist-import adds card names from a text file to the watchlist of a
// running PokeTrack server.
//
// Usage: watchlist-import -file=<path> [-api=<url>] [-verify] (-dry-run | -execute)
//
// The tool:
// 1. Reads one card name per line, ignoring blank lines and '#' comments
// 2. Fetches the current watchlist and skips names already saved
// 3. With -verify, skips names that have no exact catalog match
// 4. Adds the rest (with -execute) and prints a per-name result
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/codyseavey/poketrack/internal/config"
	"github.com/codyseavey/poketrack/internal/models"
	"github.com/codyseavey/poketrack/internal/remote"
	"github.com/codyseavey/poketrack/internal/tracker"
)

const (
	actionAdded    = "added"
	actionWouldAdd = "would_add"
	actionSkipped  = "skipped"
	actionFailed   = "failed"
)

// ImportResult tracks the outcome for one input name
type ImportResult struct {
	CardName string
	Action   string // "added", "would_add", "skipped", "failed"
	Reason   string
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	file := flag.String("file", "", "File with one card name per line, '-' for stdin (required)")
	apiURL := flag.String("api", "", "API base URL (defaults to client.base_url)")
	verify := flag.Bool("verify", false, "Skip names without an exact catalog match")
	dryRun := flag.Bool("dry-run", false, "Preview changes without modifying the watchlist")
	execute := flag.Bool("execute", false, "Add the missing names (required to make changes)")
	flag.Parse()

	if *file == "" {
		fmt.Println("Usage: watchlist-import -file=<path> [options]")
		fmt.Println("")
		fmt.Println("Adds card names to the PokeTrack watchlist, skipping ones already saved.")
		fmt.Println("")
		fmt.Println("Options:")
		fmt.Println("  -file     File with one card name per line, '-' for stdin (required)")
		fmt.Println("  -api      API base URL (defaults to client.base_url)")
		fmt.Println("  -config   Path to YAML config file")
		fmt.Println("  -verify   Skip names without an exact catalog match")
		fmt.Println("  -dry-run  Preview changes without modifying the watchlist")
		fmt.Println("  -execute  Add the missing names")
		fmt.Println("")
		fmt.Println("Examples:")
		fmt.Println("  watchlist-import -file=cards.txt -dry-run")
		fmt.Println("  watchlist-import -file=cards.txt -api=http://localhost:8080 -execute")
		os.Exit(1)
	}

	if !*dryRun && !*execute {
		fmt.Println("Error: Must specify either -dry-run or -execute")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	baseURL := cfg.Client.BaseURL
	if *apiURL != "" {
		baseURL = *apiURL
	}

	var in io.Reader = os.Stdin
	if *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatalf("Failed to open %s: %v", *file, err)
		}
		defer f.Close()
		in = f
	}

	names, err := readNames(in)
	if err != nil {
		log.Fatalf("Failed to read names: %v", err)
	}
	log.Printf("Read %d card names", len(names))
	if len(names) == 0 {
		fmt.Println("Nothing to import!")
		return
	}

	client := remote.NewClient(baseURL,
		remote.WithTimeout(cfg.Client.Timeout),
		remote.WithRateLimit(cfg.Client.RateLimit, cfg.Client.Burst),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	results, err := runImport(ctx, client, names, *verify, !*execute)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	printSummary(os.Stdout, results, !*execute)
}

// readNames returns the names in r in file order. Names that differ only in
// case are kept once, first spelling wins.
func readNames(r io.Reader) ([]string, error) {
	var names []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key := models.WatchlistKey(line)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// runImport adds every name not already saved. In dry-run mode nothing is
// written and pending adds are reported as would_add.
func runImport(ctx context.Context, api tracker.Remote, names []string, verify, dryRun bool) ([]ImportResult, error) {
	existing, err := api.ListWatchlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	saved := make(map[string]bool, len(existing))
	for _, item := range existing {
		saved[models.WatchlistKey(item.CardName)] = true
	}

	results := make([]ImportResult, 0, len(names))
	for i, name := range names {
		fmt.Printf("[%d/%d] %s\n", i+1, len(names), name)

		if saved[models.WatchlistKey(name)] {
			results = append(results, ImportResult{CardName: name, Action: actionSkipped, Reason: "already on watchlist"})
			continue
		}

		if verify {
			found, err := inCatalog(ctx, api, name)
			if err != nil {
				results = append(results, ImportResult{CardName: name, Action: actionFailed, Reason: err.Error()})
				continue
			}
			if !found {
				results = append(results, ImportResult{CardName: name, Action: actionSkipped, Reason: "not in catalog"})
				continue
			}
		}

		if dryRun {
			results = append(results, ImportResult{CardName: name, Action: actionWouldAdd})
			continue
		}

		if err := api.AddWatchlist(ctx, name); err != nil {
			results = append(results, ImportResult{CardName: name, Action: actionFailed, Reason: err.Error()})
			continue
		}
		saved[models.WatchlistKey(name)] = true
		results = append(results, ImportResult{CardName: name, Action: actionAdded})
	}
	return results, nil
}

func inCatalog(ctx context.Context, api tracker.Remote, name string) (bool, error) {
	cards, err := api.SearchCards(ctx, name)
	if err != nil {
		return false, fmt.Errorf("catalog lookup failed: %w", err)
	}
	for _, c := range cards {
		if models.SameWatchlistCard(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func printSummary(w io.Writer, results []ImportResult, dryRun bool) {
	counts := make(map[string]int)
	for _, r := range results {
		counts[r.Action]++
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "=== Import Summary ===")
	if dryRun {
		fmt.Fprintln(w, "(DRY RUN - no changes made)")
		fmt.Fprintf(w, "Would add:       %d\n", counts[actionWouldAdd])
	} else {
		fmt.Fprintf(w, "Added:           %d\n", counts[actionAdded])
	}
	fmt.Fprintf(w, "Skipped:         %d\n", counts[actionSkipped])
	fmt.Fprintf(w, "Failed:          %d\n", counts[actionFailed])
	fmt.Fprintf(w, "Total processed: %d\n", len(results))

	if counts[actionSkipped] > 0 || counts[actionFailed] > 0 {
		fmt.Fprintln(w, "\n--- Names not added ---")
		for _, r := range results {
			if r.Action == actionSkipped || r.Action == actionFailed {
				fmt.Fprintf(w, "  %s: %s (%s)\n", r.CardName, r.Action, r.Reason)
			}
		}
	}
}
