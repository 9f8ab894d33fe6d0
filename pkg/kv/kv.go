// Package kv provides the persistent key-value record area backing the
// CRM collections. Values are opaque byte blobs keyed by collection name.
package kv

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

var ErrKeyNotFound = errors.New("key not found")

type txContextKey string

const txKey txContextKey = "trx"

type Record struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value []byte `gorm:"column:value;not null"`
}

func (Record) TableName() string {
	return "records"
}

type DB struct {
	db *gorm.DB
}

// OpenSQLite opens (and creates, if missing) an embedded record area.
// The schema is migrated in place; sqlite is the default backend and
// the one every test runs against.
func OpenSQLite(path string, withDebug bool) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}
	if withDebug {
		db = db.Debug()
	}
	return &DB{db: db}, nil
}

// OpenPostgres connects to an already-migrated postgres record area.
// Run Migrate first to create the records table.
func OpenPostgres(config Config, withDebug bool) (*DB, error) {
	db, err := gorm.Open(postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		config.Host, config.User, config.Password, config.Database, config.Port)),
		&gorm.Config{
			NamingStrategy: schema.NamingStrategy{
				SingularTable: true,
			},
		})
	if err != nil {
		return nil, err
	}
	if withDebug {
		db = db.Debug()
	}
	return &DB{db: db}, nil
}

func (d *DB) Get(ctx context.Context, key string) ([]byte, error) {
	var record Record
	err := d.conn(ctx).Where("key = ?", key).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return record.Value, nil
}

func (d *DB) Set(ctx context.Context, key string, value []byte) error {
	record := Record{Key: key, Value: value}
	return d.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&record).Error
}

func (d *DB) Delete(ctx context.Context, key string) error {
	return d.conn(ctx).Where("key = ?", key).Delete(&Record{}).Error
}

// WithinTransaction runs fn with every Get/Set bound to one database
// transaction. Nested calls reuse the outer transaction.
func (d *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ctx = context.WithValue(ctx, txKey, tx)
		return fn(ctx)
	})
}

func (d *DB) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx
	}
	return d.db.WithContext(ctx)
}
