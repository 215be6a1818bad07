// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package shared

import "time"

// Server configuration defaults.
const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = 8080

	// DefaultReadHeaderTimeout is the default timeout for reading request headers.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultShutdownTimeout is the default timeout for graceful server shutdown.
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultMaxBodySize caps request bodies accepted by the server commands.
	DefaultMaxBodySize = 4 << 20
)

// Session defaults.
const (
	// DefaultSessionCacheSize is the number of sessions kept by the memory store.
	DefaultSessionCacheSize = 1024

	// DefaultSessionTTL is how long an idle session stays valid (30 minutes).
	DefaultSessionTTL = 30 * time.Minute

	// DefaultSessionCookie is the cookie carrying the session identifier.
	DefaultSessionCookie = "ENVCTXSESSID"
)
