package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"hashes-market-client/internal/client"
	"hashes-market-client/internal/config"
	"hashes-market-client/internal/logger"
	"hashes-market-client/internal/models"
	"hashes-market-client/internal/platform"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.LogLevel)
	marketClient := client.New(cfg, appLogger)

	ctx, stop := platform.NewShutdownContext(context.Background())
	defer stop()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "jobs":
		err = runJobs(ctx, marketClient, os.Args[2:])
	case "balance":
		err = runBalance(ctx, marketClient)
	case "identify":
		err = runIdentify(ctx, marketClient, os.Args[2:])
	case "lookup":
		err = runLookup(ctx, marketClient, os.Args[2:])
	case "download":
		err = runDownload(ctx, marketClient, os.Args[2:])
	case "rates":
		err = runRates(ctx, marketClient)
	case "sync-algorithms":
		err = runSyncAlgorithms(ctx, marketClient, cfg)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: hashes-market-client <jobs|balance|identify|lookup|download|rates|sync-algorithms> [flags]")
}

func runJobs(ctx context.Context, marketClient *client.Client, args []string) error {
	flags := flag.NewFlagSet("jobs", flag.ExitOnError)
	sortKey := flags.String("sort", "createdAt", "Column to sort by")
	descending := flags.Bool("desc", true, "Sort descending")
	currencies := flags.String("currency", "", "Comma-separated currency codes to keep")
	algorithms := flags.String("algorithm", "", "Comma-separated algorithm ids to keep")
	_ = flags.Parse(args)

	options := client.ListJobsOptions{
		SortKey:         *sortKey,
		Descending:      *descending,
		CurrencyFilter:  splitToSet(strings.ToUpper(*currencies)),
		AlgorithmFilter: splitToSet(*algorithms),
	}
	jobs, err := marketClient.ListJobs(ctx, options)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		fmt.Printf("%d\t%s\t%s\t%d left\t%s %s/hash\n",
			job.ID, job.CreatedAt, job.AlgorithmName, job.LeftHashes, job.PricePerHash, job.Currency)
	}
	fmt.Printf("%d jobs\n", len(jobs))
	return nil
}

func runBalance(ctx context.Context, marketClient *client.Client) error {
	balance, err := marketClient.GetBalance(ctx)
	if err != nil {
		return err
	}
	currencies := make([]string, 0, len(balance))
	for currency := range balance {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)
	for _, currency := range currencies {
		amount, _ := strconv.ParseFloat(balance[currency], 64)
		fmt.Printf("%s\t%s\t%s\n", currency, balance[currency], marketClient.ConvertToUSD(ctx, amount, currency))
	}
	return nil
}

func runIdentify(ctx context.Context, marketClient *client.Client, args []string) error {
	flags := flag.NewFlagSet("identify", flag.ExitOnError)
	extended := flags.Bool("extended", false, "Return all plausible algorithms, not just the best guess")
	_ = flags.Parse(args)
	if flags.NArg() != 1 {
		return fmt.Errorf("identify requires exactly one hash argument")
	}

	algorithms, err := marketClient.IdentifyHash(ctx, flags.Arg(0), *extended)
	if err != nil {
		return err
	}
	for _, algorithm := range algorithms {
		fmt.Println(algorithm)
	}
	return nil
}

func runLookup(ctx context.Context, marketClient *client.Client, args []string) error {
	flags := flag.NewFlagSet("lookup", flag.ExitOnError)
	inputFile := flags.String("file", "", "File with one hash per line; otherwise hashes are taken from arguments")
	_ = flags.Parse(args)

	hashes := flags.Args()
	if *inputFile != "" {
		content, err := os.ReadFile(*inputFile)
		if err != nil {
			return err
		}
		hashes = strings.Split(string(content), "\n")
	}

	response, err := marketClient.LookupHashes(ctx, hashes)
	if err != nil {
		return err
	}
	for _, found := range response.Founds {
		fmt.Printf("%s\t%s\t%s\t%s\n", found.Hash, found.Salt, found.Plaintext, found.Algorithm)
	}
	fmt.Printf("Found %d/%d hashes. Cost: %s credits.\n", len(response.Founds), response.Count, response.Cost)
	return nil
}

func runDownload(ctx context.Context, marketClient *client.Client, args []string) error {
	flags := flag.NewFlagSet("download", flag.ExitOnError)
	ids := flags.String("ids", "", "Comma-separated job ids to download; empty downloads every listed job")
	destination := flags.String("out", "leftlists.txt", "Destination file for the concatenated left lists")
	_ = flags.Parse(args)

	jobs, err := marketClient.ListJobs(ctx, client.ListJobsOptions{})
	if err != nil {
		return err
	}
	if wanted := splitToSet(*ids); len(wanted) > 0 {
		kept := make([]models.Job, 0, len(jobs))
		for _, job := range jobs {
			if _, match := wanted[strconv.FormatInt(job.ID, 10)]; match {
				kept = append(kept, job)
			}
		}
		jobs = kept
	}

	outcome, err := marketClient.DownloadLeftLists(ctx, jobs, *destination, func(update models.ProgressUpdate) {
		if update.TotalBytes > 0 {
			fmt.Printf("\r[%d/%d] job %d: %.1f%%", update.JobIndex, update.TotalJobs, update.Job.ID, update.Percent())
		} else {
			fmt.Printf("\r[%d/%d] job %d: %d bytes", update.JobIndex, update.TotalJobs, update.Job.ID, update.BytesDone)
		}
	})
	if err != nil {
		return err
	}
	fmt.Printf("\nBatch %s: wrote %d bytes to %s\n", outcome.BatchID, outcome.BytesWritten, *destination)
	for _, failure := range outcome.Failures {
		fmt.Fprintf(os.Stderr, "job %d failed: %s\n", failure.JobID, failure.Message)
	}
	return nil
}

func runRates(ctx context.Context, marketClient *client.Client) error {
	rates, err := marketClient.GetConversionRates(ctx)
	if err != nil {
		return err
	}
	currencies := make([]string, 0, len(rates))
	for currency := range rates {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)
	for _, currency := range currencies {
		fmt.Printf("%s\t%s\n", currency, rates[currency])
	}
	return nil
}

func runSyncAlgorithms(ctx context.Context, marketClient *client.Client, cfg *config.Config) error {
	synced, algorithms := marketClient.SyncAlgorithmDirectory(ctx)
	if !synced {
		return fmt.Errorf("algorithm directory sync failed")
	}
	fmt.Printf("Synced %d algorithms to %s\n", len(algorithms), cfg.AlgorithmsFile)
	return nil
}

func splitToSet(list string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, entry := range strings.Split(list, ",") {
		trimmed := strings.TrimSpace(entry)
		if trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}
