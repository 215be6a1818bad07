// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package app

import (
	"context"

	"github.com/chainguard-dev/clog"

	"github.com/cruxstack/envctx/internal/config"
	"github.com/cruxstack/envctx/internal/configwait"
	"github.com/cruxstack/envctx/internal/session"
)

// OpenSessions opens the configured session store, retrying per wait, and
// returns a Manager over it with the function that closes the store. It
// returns a nil Manager when sessions are disabled.
func OpenSessions(ctx context.Context, cfg *config.Config, wait configwait.Config) (*session.Manager, func() error, error) {
	noop := func() error { return nil }
	if cfg.Session.Disabled {
		clog.FromContext(ctx).Infof("[config] sessions disabled")
		return nil, noop, nil
	}

	var (
		store    session.Store
		closeFn  = noop
		storeCfg = cfg.StoreConfig()
	)
	err := configwait.Wait(ctx, wait, func(context.Context) error {
		s, c, err := session.NewStore(storeCfg)
		if err != nil {
			return err
		}
		store, closeFn = s, c
		return nil
	})
	if err != nil {
		return nil, noop, err
	}

	clog.FromContext(ctx).Infof("[config] session store %q ready", storeCfg.Mode)
	return session.NewManager(store, cfg.ManagerOptions()...), closeFn, nil
}
