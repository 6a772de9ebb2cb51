package database

import (
	"fmt"
	"time"

	"helpboard/config"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// 支持的数据库驱动
const (
	DriverPostgres = "pgx"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite3"
)

// NewConnection 按配置的驱动创建数据库连接
func NewConnection(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Driver {
	case DriverPostgres:
		connConfig, parseErr := pgx.ParseConfig(cfg.URL)
		if parseErr != nil {
			return nil, fmt.Errorf("解析数据库连接串失败: %w", parseErr)
		}
		db, err = sqlx.Connect(DriverPostgres, stdlib.RegisterConnConfig(connConfig))
	case DriverMySQL:
		mysqlConfig, parseErr := mysql.ParseDSN(cfg.URL)
		if parseErr != nil {
			return nil, fmt.Errorf("解析数据库连接串失败: %w", parseErr)
		}
		// 时间列扫描为time.Time，条件更新按匹配行数返回
		mysqlConfig.ParseTime = true
		mysqlConfig.Loc = time.UTC
		mysqlConfig.ClientFoundRows = true
		db, err = sqlx.Connect(DriverMySQL, mysqlConfig.FormatDSN())
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 配置连接池
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	return db, nil
}

// Qualify 为表名加上schema前缀
func Qualify(schema, table string) string {
	if schema == "" {
		return table
	}
	return schema + "." + table
}
