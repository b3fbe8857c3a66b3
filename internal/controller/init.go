package controller

import (
	"stacklist_backend/pkg/config"
	"stacklist_backend/pkg/enrich"
	"stacklist_backend/pkg/storage"
	"stacklist_backend/pkg/tiersync"
)

// Shared service handles, constructed once in main and injected here.
var (
	cfg          *config.Config
	orchestrator *enrich.Orchestrator
	syncer       *tiersync.Syncer
	store        *storage.Client
)

func Init(c *config.Config, o *enrich.Orchestrator, s *tiersync.Syncer, st *storage.Client) {
	cfg = c
	orchestrator = o
	syncer = s
	store = st
}
