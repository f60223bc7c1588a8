package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lumenlab/ledsignal/internal/config"
	"github.com/lumenlab/ledsignal/internal/engine"
	"github.com/lumenlab/ledsignal/internal/light"
	osctransport "github.com/lumenlab/ledsignal/internal/osc"
	"github.com/lumenlab/ledsignal/internal/store"
)

// Services is a container for all application services.
// It manages service initialization order and dependencies.
type Services struct {
	cfg *config.Config

	// Core infrastructure
	Store *store.Store
	Queue *engine.Queue

	// Transport
	Sender *osctransport.Sender
	Server *osctransport.Server

	// Render loop
	Engine *engine.Engine

	wg sync.WaitGroup
}

// NewServices creates all services with proper dependency injection.
func NewServices(cfg *config.Config) (*Services, error) {
	s := &Services{cfg: cfg}

	// Initialize snapshot database
	snapshots, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	s.Store = snapshots

	// Build the scene hierarchy: snapshot, then scenes file, then defaults
	manager, err := buildManager(cfg, snapshots)
	if err != nil {
		snapshots.Close()
		return nil, err
	}

	// Initialize command queue
	s.Queue = engine.NewQueue(cfg.Queue.Size)

	// Initialize feedback client
	s.Sender = osctransport.NewSender(cfg.OSC.FeedbackHost, cfg.OSC.FeedbackPort)

	// Initialize render loop
	s.Engine = engine.New(manager, s.Queue, []engine.FrameSink{s.Sender}, engine.Options{
		FPS:           cfg.Light.FPS,
		DrainBatch:    cfg.Queue.DrainBatch,
		AutosaveEvery: cfg.Database.AutosaveInterval.Duration(),
		Snapshotter:   snapshots,
	})

	// Initialize control server
	router := osctransport.NewRouter(s.Queue, s.Sender)
	s.Server = osctransport.NewServer(
		fmt.Sprintf("%s:%d", cfg.OSC.ListenHost, cfg.OSC.ListenPort),
		router,
	)

	return s, nil
}

// buildManager restores the hierarchy from the snapshot store, falling
// back to the configured scenes file and finally the default tree. A
// corrupt snapshot is logged and skipped, never fatal.
func buildManager(cfg *config.Config, snapshots *store.Store) (*light.Manager, error) {
	m := light.NewManager(cfg.Light.LEDCount)

	doc, err := snapshots.LoadSnapshot()
	switch {
	case err == nil:
		scenes, err := light.UnmarshalScenes(doc)
		if err != nil {
			log.Warn().Err(err).Msg("Stored snapshot is invalid, ignoring it")
		} else {
			m.ReplaceAll(scenes)
			log.Info().Int("scenes", len(scenes)).Msg("Scene hierarchy restored from snapshot")
			return m, nil
		}
	case errors.Is(err, store.ErrNoSnapshot):
	default:
		return nil, err
	}

	if cfg.Scenes.Path != "" {
		if _, err := os.Stat(cfg.Scenes.Path); err == nil {
			scenes, err := light.LoadScenes(cfg.Scenes.Path)
			if err != nil {
				log.Warn().Err(err).Str("path", cfg.Scenes.Path).Msg("Failed to load scenes file, using defaults")
			} else {
				m.ReplaceAll(scenes)
				log.Info().Str("path", cfg.Scenes.Path).Msg("Scene hierarchy loaded from scenes file")
				return m, nil
			}
		}
	}

	m.ReplaceAll(light.DefaultScenes(cfg.Light.LEDCount))
	log.Info().Msg("Using default scene hierarchy")
	return m, nil
}

// Start starts all services in the correct order.
// The onFatalError callback is called when a fatal error occurs.
func (s *Services) Start(ctx context.Context, onFatalError func(error)) error {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.Server.Run(ctx); err != nil {
			onFatalError(err)
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.Engine.Run(ctx); err != nil {
			onFatalError(err)
		}
	}()

	return nil
}

// ResetState clears the stored snapshot and restores the default tree.
// Must be called before Start.
func (s *Services) ResetState() error {
	if err := s.Store.Clear(); err != nil {
		return err
	}
	s.Engine.Manager().ReplaceAll(light.DefaultScenes(s.cfg.Light.LEDCount))
	return nil
}

// Stop waits for running services to finish, bounded by timeout, then
// releases resources. The engine persists a final snapshot on the way out.
func (s *Services) Stop(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		log.Warn().Dur("timeout", timeout).Msg("Services did not stop in time")
	}

	s.Close()
	return nil
}

// Close releases all resources.
func (s *Services) Close() {
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			log.Error().Err(err).Msg("Snapshot database close error")
		}
	}
}
