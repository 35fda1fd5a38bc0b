package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"

	"github.com/vadar/recall-ticker/config"
	"github.com/vadar/recall-ticker/http"
	"github.com/vadar/recall-ticker/price"
	"github.com/vadar/recall-ticker/writer"
)

func main() {
	cfg := config.Parse()

	client, err := price.NewClient(cfg, http.New(cfg.RequestTimeout(), cfg.Proxy))
	if err != nil {
		logrus.Fatalln(err)
	}

	tw, err := writer.NewTableWriter(cfg.Columns)
	if err != nil {
		logrus.Fatalln(err)
	}

	refreshInterval := cfg.RefreshInterval()
	if refreshInterval != 0 {
		logrus.Infof("Auto refresh on every %s", refreshInterval)
		// Logs go through the live writer so they are not overwritten by the table
		logrus.SetOutput(tw)
		defer logrus.SetOutput(colorable.NewColorableStderr())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for {
		symbolPriceList := client.GetSymbolPrices(ctx, cfg.Tokens)
		tw.Render(symbolPriceList)
		if refreshInterval == 0 {
			break
		}
		// Stall between rounds to avoid exceeding the API limit
		select {
		case <-ctx.Done():
			return
		case <-time.After(refreshInterval):
		}
	}
}
