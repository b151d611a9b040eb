package pg

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

type txContextKey string

const txKey txContextKey = "trx"

// DB holds separate read and write handles. For sqlite both point at the
// same connection.
type DB struct {
	read  *gorm.DB
	write *gorm.DB
}

func gormConfig(withDebug bool) *gorm.Config {
	c := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}
	if withDebug {
		c.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}
	return c
}

func Create(config Config, withDebug bool) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(config.DSN()), gormConfig(withDebug))
}

func CreateReadWrite(readConfig Config, writeConfig Config, withDebug bool) (*DB, error) {
	read, err := Create(readConfig, withDebug)
	if err != nil {
		return nil, err
	}
	write, err := Create(writeConfig, withDebug)
	if err != nil {
		return nil, err
	}
	return &DB{read, write}, nil
}

// CreateSQLite opens a single-connection sqlite database at path. sqlite
// serializes writers, so one pooled connection avoids SQLITE_BUSY errors.
func CreateSQLite(path string, withDebug bool) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig(withDebug))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &DB{read: db, write: db}, nil
}

func (r *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.write.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ctx = context.WithValue(ctx, txKey, tx)
		return fn(ctx)
	})
}

func (r *DB) Write(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok {
		return tx
	}

	tx = r.write.WithContext(ctx)

	return tx
}

func (r *DB) Read(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok {
		return tx
	}

	tx = r.read.WithContext(ctx)

	return tx
}

// AutoMigrate creates or updates tables for the given entities on the write handle.
func (r *DB) AutoMigrate(entities ...interface{}) error {
	return r.write.AutoMigrate(entities...)
}

// handles lists the distinct gorm handles; sqlite uses one for both roles.
func (r *DB) handles() []*gorm.DB {
	if r.read == r.write {
		return []*gorm.DB{r.write}
	}
	return []*gorm.DB{r.read, r.write}
}

// Ping checks every handle.
func (r *DB) Ping(ctx context.Context) error {
	for _, h := range r.handles() {
		sqlDB, err := h.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (r *DB) Close() error {
	var first error
	for _, h := range r.handles() {
		sqlDB, err := h.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}
