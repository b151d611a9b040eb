package main

import (
	"io/fs"
	"os"
	"strings"

	"github.com/nimasrn/finance-ledger/internal/config"
	"github.com/nimasrn/finance-ledger/migrations"
	"github.com/nimasrn/finance-ledger/pkg/logger"
	"github.com/nimasrn/finance-ledger/pkg/pg"
)

// main.go [--env=.env] [--dir=./migrations]
//
// Without --dir the migrations compiled into the binary are applied.
func main() {
	defer logger.Sync()

	err := config.Load(config.EnvPathFromArgs(os.Args))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if config.Get().DBDriver != pg.DriverPostgres {
		logger.Info("migration: nothing to do, sqlite schema is created by the api on start", "driver", config.Get().DBDriver)
		return
	}

	var fsys fs.FS = migrations.FS
	dir := "."
	if d := getMigrationPath(); d != "" {
		fsys, dir = nil, d
	}

	if err := pg.Migrate(config.Get().PostgresWrite(), fsys, dir); err != nil {
		logger.Error("migration: error running migrations", "error", err)
		os.Exit(1)
	}
}

func getMigrationPath() string {
	for _, v := range os.Args {
		if path, ok := strings.CutPrefix(v, "--dir="); ok {
			if _, err := os.Stat(path); err != nil {
				logger.Error("failed to open the passed migrations dir", "path", path, "error", err)
				return ""
			}
			return path
		}
	}
	return ""
}
