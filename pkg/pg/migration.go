package pg

import (
	"io/fs"

	_ "github.com/lib/pq"
	"github.com/nimasrn/finance-ledger/pkg/logger"
	"github.com/pressly/goose/v3"
)

// Migrate applies every pending goose migration found in dir. When fsys is
// nil dir is read from the local filesystem, otherwise from fsys.
func Migrate(cfg Config, fsys fs.FS, dir string) error {
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := newSqlConnection(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	before, err := goose.GetDBVersion(db)
	if err != nil {
		logger.Warn("migration: could not read current version", "error", err)
	}
	if err = goose.Up(db, dir); err != nil {
		return err
	}
	after, _ := goose.GetDBVersion(db)
	logger.Info("migration: done", "from_version", before, "to_version", after, "dir", dir)

	return nil
}
