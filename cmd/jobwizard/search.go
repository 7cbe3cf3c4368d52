package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pevans/jobwizard/diagnostics"
	"github.com/pevans/jobwizard/prefs"
)

func handleSearch(args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	fs.Usage = printSearchUsage
	country := fs.String("country", string(prefs.CountryAny), "Platform code")
	sphere := fs.String("sphere", string(prefs.SphereAny), "Professional area code")
	format := fs.String("format", string(prefs.FormatAny), "Work format code")
	output := fs.String("format-output", "table", "Output format: table or json")
	fs.Parse(args)

	if *output != "table" && *output != "json" {
		fmt.Fprintf(os.Stderr, "Error: invalid output format: %s\n", *output)
		os.Exit(1)
	}

	p := prefs.Prefs{
		Country: prefs.Country(*country),
		Sphere:  prefs.Sphere(*sphere),
		Format:  prefs.Format(*format),
	}.Normalize()
	if err := p.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	a := newApp()
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	trail := diagnostics.NewTrail()
	result := a.searcher.Search(ctx, p, trail)
	queries := trail.Last(trail.Len())

	if *output == "json" {
		printSearchJSON(p, result, queries)
		return
	}
	printSearchTable(p, result, queries)
}
