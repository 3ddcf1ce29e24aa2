package main

import (
	"fmt"

	"github.com/fentz26/missionlog/internal/api"
	"github.com/fentz26/missionlog/internal/query"
	"github.com/fentz26/missionlog/internal/store"
)

// openProvider returns the record source selected by the config: the HTTP
// API when an address is configured, the local database otherwise. The
// returned close func is always non-nil.
func openProvider() (query.Provider, func() error, error) {
	if cfg.APIAddr != "" {
		logger.Debug("reading results from API")
		return api.NewClient(cfg.APIAddr), func() error { return nil }, nil
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return s, s.Close, nil
}
