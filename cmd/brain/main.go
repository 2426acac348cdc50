package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/rawblock/trade-brain/internal/api"
	"github.com/rawblock/trade-brain/internal/brain"
	"github.com/rawblock/trade-brain/internal/config"
	"github.com/rawblock/trade-brain/internal/featurecache"
	"github.com/rawblock/trade-brain/internal/store"
	"github.com/rawblock/trade-brain/pkg/models"
)

// noopWindowStore backs the mint feature cache when Postgres is unavailable
// (spec §4.6: the cache keeps its previous snapshot on a query failure).
type noopWindowStore struct{}

func (noopWindowStore) QueryMintFeatures(ctx context.Context, mint models.Mint) (models.MintFeatures, error) {
	return models.MintFeatures{}, store.ErrNoStore
}

func (noopWindowStore) AllMints(ctx context.Context) ([]models.Mint, error) {
	return nil, store.ErrNoStore
}

func main() {
	log.Println("Starting Brain decision engine...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("Warning: failed to connect to PostgreSQL, continuing without persistence. Error: %v", err)
		st = nil
	} else {
		defer st.Close()
		if err := st.InitSchema(ctx); err != nil {
			log.Printf("Warning: schema init failed: %v", err)
		}
	}

	var writer *store.Writer
	var windowStore featurecache.WindowStore = noopWindowStore{}
	if st != nil {
		writer = store.NewWriter(st, 256, 32, 0)
		go writer.Run(ctx)
		windowStore = st
	}

	engine, err := brain.New(brain.Thresholds{
		ProfitTargets: models.ProfitTargets{
			Tier1: cfg.TargetTier1,
			Tier2: cfg.TargetTier2,
			Tier3: cfg.TargetTier3,
		},
		StopLossPct:    cfg.StopLossPct,
		MaxHoldSecs:    cfg.MaxHoldSecs,
		MaxSellRetries: cfg.MaxSellRetries,
		MaxPositions:   cfg.MaxPositions,

		ReservationTTL:     cfg.ReservationTTL,
		DedupTTL:           cfg.DedupTTL,
		SigTrackerStaleAge: cfg.SigTrackerTTL,
		HeatWindowSecs:     cfg.HeatWindowSecs,
		WhaleThresholdSol:  cfg.WhaleThresholdSol,
		BotRepeatThreshold: cfg.BotRepeatThreshold,
	}, windowStore)
	if err != nil {
		log.Fatalf("FATAL: failed to start brain engine: %v", err)
	}
	engine.SetWriter(writer)
	go engine.Run(ctx)

	wsHub := api.NewHub()
	go wsHub.Run()

	r := api.SetupRouter(api.Dependencies{
		Positions:    engine.Positions,
		Reservations: engine.Reservations,
		Dedup:        engine.Dedup,
		Heat:         engine.Heat,
		WSHub:        wsHub,
		ManualExit:   engine.RequestManualExit,
	})

	log.Printf("Brain running on :%s\n", cfg.HTTPPort)
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
