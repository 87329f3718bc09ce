// weather-panel fetches the current weather once and prints the panel to
// the terminal.
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/weather-panel
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kinderhort/childcare-registration/internal/config"
	"github.com/kinderhort/childcare-registration/internal/weather"
)

const panelWidth = 60

func main() {
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	refresher := weather.NewRefresher(
		weather.NewClient(cfg.Weather),
		weather.NewMemoryStore(),
		cfg.Weather.RefreshInterval,
		cfg.Weather.Timeout,
		log,
		nil,
	)

	fmt.Println(weather.RenderTerminal(refresher.Refresh(ctx), panelWidth))
}
