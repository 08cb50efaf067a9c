package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/weiwei-tsao/country-stats/apps/api/internal/business/countries"
	"github.com/weiwei-tsao/country-stats/apps/api/internal/platform/config"
	"github.com/weiwei-tsao/country-stats/apps/api/internal/platform/logger"
	"github.com/weiwei-tsao/country-stats/apps/api/internal/render"
	"github.com/weiwei-tsao/country-stats/apps/api/internal/store"
	"github.com/weiwei-tsao/country-stats/apps/api/pkg/model"
)

func main() {
	name := flag.String("name", "", "comma separated country names to search for")
	all := flag.Bool("all", false, "report on every country")
	format := flag.String("format", "text", "output format: text or csv")
	table := flag.String("table", render.TableCountries, "table to export with -format=csv")
	lang := flag.String("lang", "en", "language used for digit grouping in text output")
	flag.Parse()

	if (*name == "") == !*all {
		fmt.Fprintln(os.Stderr, "usage: country-stats -name <names> | -all [-format text|csv] [-table name]")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer appLog.Sync()

	reports, closeStore, _, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("report store init: %v", err)
	}
	defer closeStore()

	source := countries.NewRESTSource(countries.NewHTTPFetcher(nil, cfg.CountriesTimeout), cfg.CountriesBaseURL)
	svc := countries.NewService(source, reports, appLog, cfg.SearchWorkers)

	var run model.ReportRun
	if *all {
		run, err = svc.All(ctx)
	} else {
		run, err = svc.Search(ctx, "", *name)
	}
	if err != nil {
		log.Fatalf("build report: %v", err)
	}

	switch strings.ToLower(*format) {
	case "csv":
		t, buildErr := render.BuildTable(*table, run.Report, render.Formatter{})
		if buildErr != nil {
			log.Fatalf("export: %v", buildErr)
		}
		err = render.WriteCSV(os.Stdout, t)
	case "text":
		err = render.WriteText(os.Stdout, render.BuildTables(run.Report, render.FormatterFor(*lang)))
	default:
		log.Fatalf("unknown format %q", *format)
	}
	if err != nil {
		log.Fatalf("write output: %v", err)
	}
}
