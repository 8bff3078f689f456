// Command viewer opens a desktop window showing a map's minimap.
package main

import (
	"context"
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/SirThane/BattleMaps-sub000/internal/awbwapi"
	"github.com/SirThane/BattleMaps-sub000/internal/config"
	"github.com/SirThane/BattleMaps-sub000/internal/mapservice"
	"github.com/SirThane/BattleMaps-sub000/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	id := flag.Int("id", 0, "AWBW map id to show instead of a file")
	from := flag.String("from", "", "input format (default: detect)")
	scale := flag.Int("scale", 0, "window scale (0 to use config default)")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load .env")
	}
	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()
	config.SetupLogging(cfg.Server.LogLevel, cfg.Server.LogFormat)

	if *id == 0 && flag.NArg() != 1 {
		log.Fatal().Msg("usage: viewer [-id N | map-file]")
	}
	viewerCfg := cfg.Viewer
	if *scale > 0 {
		viewerCfg.Scale = *scale
	}

	svc := mapservice.New(awbwapi.NewClient(awbwapi.Options{
		Endpoint:      cfg.AWBW.Endpoint,
		Timeout:       cfg.AWBW.TimeoutDuration(),
		RatePerSecond: cfg.AWBW.RatePerSecond,
		Burst:         cfg.AWBW.Burst,
	}), nil, nil)

	ctx := context.Background()
	m, err := loadMap(ctx, svc, *id, *from, flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load map")
	}

	v, err := ui.NewViewer(m, viewerCfg, &ui.SystemClipboard{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare viewer")
	}
	if err := ui.Run(v); err != nil {
		log.Fatal().Err(err).Msg("Viewer exited with error")
	}
}
