package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/marcelsud/complaint-notifier/config"
	"github.com/marcelsud/complaint-notifier/internal/app"
	"github.com/marcelsud/complaint-notifier/reminder"
)

/* cli runs one deadline scan and prints its report
 * Usage: go run cmd/cli/main.go [-date 2025-01-08]
 */

func main() {
	date := flag.String("date", "", "civil date to scan (YYYY-MM-DD), defaults to today")
	flag.Parse()

	if err := run(*date); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(date string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	logger := app.Logger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := app.RedisClient(cfg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	scanner, repo, err := app.Scanner(ctx, cfg, logger, app.Ledger(redisClient), nil)
	if err != nil {
		return err
	}
	defer repo.Close(ctx)

	today := scanner.Today()
	if date != "" {
		if today, err = reminder.ParseDate(date); err != nil {
			return err
		}
	}

	report, err := scanner.Scan(ctx, today)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
