// Command backup exports the catalog to a JSON file or loads figures
// from a CSV file, talking to the database directly.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/figstore/internal/adapter/postgres"
	figrepo "github.com/heartmarshall/figstore/internal/adapter/postgres/figure"
	"github.com/heartmarshall/figstore/internal/app"
	"github.com/heartmarshall/figstore/internal/bus"
	"github.com/heartmarshall/figstore/internal/cache"
	"github.com/heartmarshall/figstore/internal/config"
	"github.com/heartmarshall/figstore/internal/domain"
	backupsvc "github.com/heartmarshall/figstore/internal/service/backup"
	figsvc "github.com/heartmarshall/figstore/internal/service/figure"
)

func main() {
	exportPath := flag.String("export", "", "write the catalog to this JSON file")
	importPath := flag.String("import", "", "load figures from this CSV file")
	flag.Parse()

	if (*exportPath == "") == (*importPath == "") {
		fmt.Fprintln(os.Stderr, "usage: backup -export <file.json> | -import <file.csv>")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	figureCache := cache.New(cache.Config{
		Capacity:      cfg.Cache.Capacity,
		MaxAge:        cfg.Cache.MaxAge,
		SweepInterval: cfg.Cache.SweepInterval,
	}, logger)
	defer figureCache.Shutdown()

	repo := figrepo.New(pool, &domain.SequenceGenerator{})
	figures := figsvc.NewService(logger, repo, figureCache, bus.New(cfg.Notify.Buffer, logger))
	backup := backupsvc.NewService(logger, figures, figures)

	switch {
	case *exportPath != "":
		if err := backup.ExportJSON(ctx, *exportPath); err != nil {
			log.Fatalf("export: %v", err)
		}
		fmt.Println("catalog exported to", *exportPath)
	case *importPath != "":
		report, err := backup.ImportCSV(ctx, *importPath)
		if err != nil {
			log.Fatalf("import: %v", err)
		}
		fmt.Printf("imported %d figures\n", report.Imported)
		for _, rej := range report.Rejected {
			fmt.Fprintln(os.Stderr, "rejected:", rej.Error())
		}
	}
}
