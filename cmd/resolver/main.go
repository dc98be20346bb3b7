package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"tickerlens/internal/catalog"
	"tickerlens/internal/config"
	"tickerlens/internal/infrastructure"
	"tickerlens/internal/services"
)

func main() {
	universeFile := flag.String("universe", "", "ticker universe file (defaults to configured path)")
	broadFile := flag.String("broad-universe", "", "broad universe file, supersedes -universe when readable")
	nameMapFile := flag.String("names", "", "company name map file")
	cacheFile := flag.String("cache", "", "alias cache file (empty disables caching)")
	rebuild := flag.Bool("rebuild", false, "rebuild the alias cache from source and exit")
	asJSON := flag.Bool("json", false, "emit results as JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	// Flags override configured paths.
	if *universeFile != "" {
		cfg.Paths.UniverseFile = *universeFile
	}
	if *broadFile != "" {
		cfg.Paths.BroadUniverseFile = *broadFile
	}
	if *nameMapFile != "" {
		cfg.Paths.NameMapFile = *nameMapFile
	}
	if *cacheFile != "" {
		cfg.Paths.CacheFile = *cacheFile
	}

	store := catalog.NewStore(catalog.Sources{
		UniverseFile:      cfg.Paths.UniverseFile,
		BroadUniverseFile: cfg.Paths.BroadUniverseFile,
		NameMapFile:       cfg.Paths.NameMapFile,
		CacheFile:         cfg.Paths.CacheFile,
		Overrides:         catalog.DefaultOverrides(),
		MaxAliases:        cfg.Resolver.MaxAliases,
	}, logger)

	ctx := context.Background()

	if *rebuild {
		snap, err := store.Rebuild(ctx)
		if err != nil {
			logger.Error("Catalog rebuild failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("rebuilt catalog: %d tickers, %d aliases\n", snap.Universe.Len(), snap.Index.Len())
		return
	}

	service := services.NewResolveService(store, cfg.Resolver, nil, logger)

	// Queries come from arguments, or from stdin one per line.
	if args := flag.Args(); len(args) > 0 {
		resolveAndPrint(ctx, service, strings.Join(args, " "), *asJSON)
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		resolveAndPrint(ctx, service, line, *asJSON)
	}
	if err := scanner.Err(); err != nil {
		logger.Error("Failed to read stdin", "error", err)
		os.Exit(1)
	}
}

func resolveAndPrint(ctx context.Context, service *services.ResolveService, query string, asJSON bool) {
	result, err := service.Resolve(ctx, query)
	if err != nil {
		slog.Error("Resolve failed", "query", query, "error", err)
		os.Exit(1)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		if err := enc.Encode(result); err != nil {
			slog.Error("Failed to encode result", "error", err)
			os.Exit(1)
		}
		return
	}

	if len(result.Matches) == 0 {
		fmt.Printf("%s -> no matches\n", query)
	} else {
		parts := make([]string, 0, len(result.Matches))
		for _, m := range result.Matches {
			parts = append(parts, fmt.Sprintf("%s (%q)", m.Ticker, m.Input))
		}
		fmt.Printf("%s -> %s\n", query, strings.Join(parts, ", "))
	}
	for _, w := range result.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
}
