package sqlutil

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type counter struct {
	tx *sql.Tx
}

func (c *counter) bump(ctx context.Context) error {
	_, err := c.tx.ExecContext(ctx, `UPDATE counters SET n = n + 1`)
	return err
}

func openCounter(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE counters (n INTEGER NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO counters (n) VALUES (0)`)
	require.NoError(t, err)
	return db
}

func count(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT n FROM counters`).Scan(&n))
	return n
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	db := openCounter(t)
	newCounter := func(tx *sql.Tx) *counter { return &counter{tx: tx} }

	require.NoError(t, Run(ctx, db, newCounter, func(c *counter) error {
		return c.bump(ctx)
	}))
	assert.Equal(t, 1, count(t, db))

	failed := errors.New("boom")
	err := Run(ctx, db, newCounter, func(c *counter) error {
		require.NoError(t, c.bump(ctx))
		return failed
	})
	assert.ErrorIs(t, err, failed)
	assert.Equal(t, 1, count(t, db), "an error rolls back")

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = Run(ctx, db, newCounter, func(c *counter) error {
			require.NoError(t, c.bump(ctx))
			panic("kaboom")
		})
	})
	assert.Equal(t, 1, count(t, db), "a panic rolls back")

	require.NoError(t, Run(ctx, db, newCounter, func(c *counter) error {
		return c.bump(ctx)
	}), "the connection is released after a panic")
	assert.Equal(t, 2, count(t, db))
}
