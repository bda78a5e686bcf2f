package database

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type txKey struct{}

// Transaction runs fn inside a database transaction carried in the context
// passed to fn. Repositories called with that context pick the transaction
// up through Conn. The transaction commits when fn returns nil and rolls back
// on an error or a panic. A Transaction nested inside another joins the
// outer one.
//
//	err := database.Transaction(ctx, db, func(ctx context.Context) error {
//	    if err := products.DeleteByStore(ctx, id); err != nil {
//	        return err
//	    }
//	    return stores.Delete(ctx, id)
//	})
func Transaction(ctx context.Context, db *gorm.DB, fn func(ctx context.Context) error) error {
	return run(ctx, db, fn)
}

// Snapshot is Transaction at REPEATABLE READ, so every statement in fn reads
// the same committed state. sqlite transactions are serializable already and
// ignore the level.
func Snapshot(ctx context.Context, db *gorm.DB, fn func(ctx context.Context) error) error {
	return run(ctx, db, fn, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
}

func run(ctx context.Context, db *gorm.DB, fn func(ctx context.Context) error, opts ...*sql.TxOptions) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	}, opts...)
}

// Conn returns the transaction active in ctx, or db bound to ctx.
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// InTransaction reports whether ctx carries an active transaction.
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok
}
