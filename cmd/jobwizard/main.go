package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	subcommand := os.Args[1]
	args := os.Args[2:]

	switch subcommand {
	case "serve":
		handleServe(args)
	case "search":
		handleSearch(args)
	case "wizard":
		handleWizard(args)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("jobwizard - Job search wizard")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  jobwizard <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve      Run the HTTP API")
	fmt.Println("  search     Run one search and print the listings")
	fmt.Println("  wizard     Walk through the wizard in the terminal")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  ~/.jobwizard/config.yaml and .env are read when present.")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  ALLOW_UNRESTRICTED_REGION  Disable the region filter (default: true)")
	fmt.Println("  JOBWIZARD_ADDR             HTTP listen address (default: localhost:8090)")
	fmt.Println("  JOBWIZARD_PRIMARY_FEED     Job feed URL")
	fmt.Println("  JOBWIZARD_SECONDARY_PAGE   Listings page URL")
	fmt.Println("  JOBWIZARD_FETCH_TIMEOUT    Timeout per request (default: 25s)")
	fmt.Println("  JOBWIZARD_DIAGNOSTICS_DSN  SQLite path for query trails (default: in memory)")
	fmt.Println("  JOBWIZARD_RESOLVE_FEED_HOST  Resolve the feed host before searching (default: true)")
	fmt.Println("  JOBWIZARD_SESSION_IDLE_TIMEOUT  Expire unused API sessions, 0 to keep (default: 24h)")
	fmt.Println("  LOG_LEVEL                  debug, info, warn or error (default: info)")
	fmt.Println("  LOG_FORMAT                 json or console (default: console)")
	fmt.Println("  OWNER_NAME, OWNER_URL      Author credited in messages")
}

func printSearchUsage() {
	fmt.Println("jobwizard search - Run one search")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  jobwizard search [--country CODE] [--sphere CODE] [--format CODE] [--format-output table|json]")
	fmt.Println()
	fmt.Println("Codes:")
	fmt.Println("  country  UA, INTL, EU, ANY or another platform code")
	fmt.Println("  sphere   QA, BACKEND, FRONTEND, DATA, DEVOPS, PMBA, DESIGN, ANY")
	fmt.Println("  format   REMOTE, OFFICE, PARTTIME, CONTRACT, ANY")
}
