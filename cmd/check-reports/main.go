package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/weiwei-tsao/country-stats/apps/api/internal/business/countries"
	"github.com/weiwei-tsao/country-stats/apps/api/internal/platform/config"
	"github.com/weiwei-tsao/country-stats/apps/api/internal/store"
)

// Lists the most recent reports in the configured store and flags stored
// labels that still need cleaning.
func main() {
	query := flag.String("query", "", "only list reports for this query (* for all countries)")
	limit := flag.Int("limit", 10, "number of reports to list")
	flag.Parse()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	if cfg.ReportStore == config.StoreNone {
		log.Fatal("REPORT_STORE is none; nothing to check")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reports, closeStore, desc, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("report store init: %v", err)
	}
	defer closeStore()
	fmt.Printf("Connected to %s\n\n", desc)

	runs, err := reports.ListReports(ctx, countries.HistoryKey(*query), *limit)
	if err != nil {
		log.Fatalf("list reports: %v", err)
	}
	if len(runs) == 0 {
		fmt.Println("No reports found")
		return
	}

	dirty := make(map[string][]string)
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCreated\tQuery\tCountries\tPopulation\tDirty labels")
	for _, r := range runs {
		labels := countries.DirtyLabels(r.Report)
		if len(labels) > 0 {
			dirty[r.ID] = labels
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), r.Query, r.Report.TotalCountries, r.Report.TotalPopulation, len(labels))
	}
	tw.Flush()

	if len(dirty) == 0 {
		return
	}
	fmt.Println("\n=== Labels still carrying markup or stray whitespace ===")
	for _, r := range runs {
		for _, label := range dirty[r.ID] {
			fmt.Printf("%s: %q\n", r.ID, label)
		}
	}
}
