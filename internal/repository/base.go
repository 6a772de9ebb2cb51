package repository

import (
	"context"
	"database/sql"
	"errors"

	"helpboard/pkg/database"

	"github.com/jmoiron/sqlx"
)

// base 各存储库共享的表名和方言处理
type base struct {
	db     *sqlx.DB
	schema string
}

func (b base) table(name string) string {
	return database.Qualify(b.schema, name)
}

// insertReturningID 执行插入并在同一语句中取回新ID
func insertReturningID(ctx context.Context, ext sqlx.ExtContext, query string, args ...interface{}) (int64, error) {
	query = ext.Rebind(query)
	if ext.DriverName() == database.DriverMySQL {
		result, err := ext.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	}

	var id int64
	if err := ext.QueryRowxContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// rowsAffected 返回受影响行数
func rowsAffected(result sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// notFound 无记录时返回nil
func notFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
