// migrate applies the session store migrations from embedded SQL; nexus also runs them on start.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/prabhakarsharma95/Nexus-Frontend/internal/config"
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/db/migrate"
)

func main() {
	direction := pflag.String("direction", "up", "Migration direction: up or down")
	driver := pflag.String("driver", "", "sqlite or postgres (default SESSION_STORE_DRIVER)")
	dsn := pflag.String("dsn", "", "SQLite path or postgres:// URL (default SESSION_STORE_DSN)")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *driver == "" {
		*driver = cfg.StoreDriver
	}
	if *dsn == "" {
		*dsn = cfg.StoreDSN
	}
	if *driver == config.DriverMemory {
		fmt.Fprintln(os.Stderr, "the memory session store has nothing to migrate")
		return
	}

	if err := migrate.Run(*driver, *dsn, *direction); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return
		}
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
