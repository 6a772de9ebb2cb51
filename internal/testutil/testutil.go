// Package testutil 提供测试用的内存数据库和Redis
package testutil

import (
	"testing"

	"helpboard/pkg/database"
	"helpboard/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// NewDB 创建已执行迁移的内存SQLite数据库
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Connect(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	// 内存库每个连接独立，只能保留一个连接
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.RunMigrations(db, "", logger.NewNop()))
	return db
}

// NewRedis 创建连接到miniredis的客户端
func NewRedis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}
