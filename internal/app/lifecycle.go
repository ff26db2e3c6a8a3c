package app

import (
	"invest-console.io/console/internal/pkg/logger"
)

// Shutdown releases application resources. Safe to call once after the HTTP
// server has stopped accepting requests.
func (a *Application) Shutdown() {
	if a.Pools != nil {
		a.Pools.Shutdown()
	}
	if a.Session != nil {
		a.Session.Clear()
	}
	// Sync on stderr fails under some terminals; ignore.
	_ = logger.Sync()
}
