// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package configwait

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/chainguard-dev/clog"
)

// ReloadFunc rebuilds the handler from fresh configuration. On error the
// gate keeps its current handler.
type ReloadFunc func(ctx context.Context) (http.Handler, error)

// Reloader rebuilds the gate's handler on SIGHUP or on Trigger.
type Reloader struct {
	gate   *ReadyGate
	reload ReloadFunc
	ctx    context.Context

	mu       sync.Mutex
	running  bool
	reloadCh chan struct{}
}

// NewReloader creates a Reloader that swaps the handler of gate.
func NewReloader(ctx context.Context, gate *ReadyGate, reload ReloadFunc) *Reloader {
	return &Reloader{
		gate:     gate,
		reload:   reload,
		ctx:      ctx,
		reloadCh: make(chan struct{}, 1),
	}
}

// Start listens for reload requests until the Reloader's context ends. The
// returned channel is closed once it has stopped.
func (r *Reloader) Start() <-chan struct{} {
	done := make(chan struct{})
	log := clog.FromContext(r.ctx)

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)

	go func() {
		defer close(done)
		defer signal.Stop(sighup)

		for {
			select {
			case <-r.ctx.Done():
				return
			case <-sighup:
				log.Infof("[reloader] received SIGHUP, reloading")
				r.run()
			case <-r.reloadCh:
				r.run()
			}
		}
	}()
	return done
}

// Trigger queues a reload. It is a no-op while one is already queued.
func (r *Reloader) Trigger() {
	select {
	case r.reloadCh <- struct{}{}:
	default:
		clog.FromContext(r.ctx).Debugf("[reloader] reload already pending")
	}
}

func (r *Reloader) run() {
	log := clog.FromContext(r.ctx)

	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	h, err := r.reload(r.ctx)
	if err != nil {
		log.Errorf("[reloader] reload failed: %v", err)
		return
	}
	r.gate.SetHandler(h)
	log.Infof("[reloader] handler reloaded")
}
