package main

import (
	"fmt"
	"log"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/festwork/gala/internal/api"
	"github.com/festwork/gala/internal/config"
	"github.com/festwork/gala/internal/coordinator"
	"github.com/festwork/gala/internal/delegate"
	"github.com/festwork/gala/internal/memory"
	"github.com/festwork/gala/internal/state"
)

// buildCoordinator wires the full planning stack from configuration: the
// generation client, both stores, the agent registry with its profile
// watcher, and the delegator. The returned cleanup closes everything the
// stack opened and must be called even when chat exits early.
func buildCoordinator(cfg *config.Config, concurrent, strictApproval bool) (*coordinator.Coordinator, func(), error) {
	var apiKey string
	if !cfg.Anthropic.UseAWSBedrock {
		key, err := config.GetAPIKey(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("%w (set ANTHROPIC_API_KEY or run 'gala config anthropic.api_key <key>')", err)
		}
		apiKey = key
	}

	client, err := api.NewClient(api.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		MaxTokens:     int64(cfg.Anthropic.MaxTokens),
		APIKey:        apiKey,
		UseAWSBedrock: cfg.Anthropic.UseAWSBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create API client: %w", err)
	}

	db, err := state.Open(cfg.Storage.ConversationsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open conversation store: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate conversation store: %w", err)
	}

	mem, err := memory.NewStore(cfg.Storage.MemoryPath)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("open memory store: %w", err)
	}
	if err := mem.Migrate(); err != nil {
		mem.Close()
		db.Close()
		return nil, nil, fmt.Errorf("migrate memory store: %w", err)
	}

	watcher, err := config.NewProfileWatcher(cfg.Delegation.ProfilesDir)
	if err != nil {
		mem.Close()
		db.Close()
		return nil, nil, fmt.Errorf("load agent profiles: %w", err)
	}

	playbook := delegate.DefaultPlaybook()
	if cfg.Delegation.PlaybookPath != "" {
		playbook, err = delegate.LoadPlaybook(cfg.Delegation.PlaybookPath)
		if err != nil {
			log.Printf("[Chat] playbook %s unusable, using the built-in one: %v", cfg.Delegation.PlaybookPath, err)
			playbook = delegate.DefaultPlaybook()
		}
	}

	delegator := delegate.New(delegate.Config{
		Registry:   delegate.NewWatchedRegistry(watcher.Profiles, client),
		Playbook:   playbook,
		Retry:      delegate.PolicyFromConfig(cfg.Delegation),
		Timeout:    cfg.Delegation.AssignmentTimeout,
		Concurrent: concurrent,
	})

	coord, err := coordinator.New(coordinator.Config{
		Store:          db,
		Generator:      client,
		Delegator:      delegator,
		Memory:         mem,
		StrictApproval: strictApproval,
	})
	if err != nil {
		watcher.Close()
		mem.Close()
		db.Close()
		return nil, nil, fmt.Errorf("create coordinator: %w", err)
	}

	cleanup := func() {
		coord.Close()
		watcher.Close()
		if err := mem.Close(); err != nil {
			log.Printf("[Chat] close memory store: %v", err)
		}
		if err := db.Close(); err != nil {
			log.Printf("[Chat] close conversation store: %v", err)
		}
	}
	return coord, cleanup, nil
}
