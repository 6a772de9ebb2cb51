package database

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"helpboard/pkg/logger"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations
var migrationsFS embed.FS

// 迁移文件中的表名前缀占位符
const prefixPlaceholder = "{{prefix}}"

type migration struct {
	Version int64
	Name    string
	Content string
}

// RunMigrations 按版本顺序执行当前驱动目录下尚未应用的迁移
func RunMigrations(db *sqlx.DB, schema string, log *logger.Logger) error {
	prefix := ""
	if schema != "" {
		prefix = schema + "."
	}

	migrations, err := loadMigrations(db.DriverName(), prefix)
	if err != nil {
		return err
	}

	table := Qualify(schema, "schema_migrations")
	if _, err := db.Exec(fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (version BIGINT PRIMARY KEY, applied_at TIMESTAMP NOT NULL)", table,
	)); err != nil {
		return fmt.Errorf("创建迁移记录表失败: %w", err)
	}

	var current int64
	if err := db.Get(&current, fmt.Sprintf("SELECT COALESCE(MAX(version), 0) FROM %s", table)); err != nil {
		return fmt.Errorf("获取当前迁移版本失败: %w", err)
	}

	applied := 0
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		log.Info("执行数据库迁移", "version", m.Version, "name", m.Name)
		if err := applyMigration(db, table, m); err != nil {
			return fmt.Errorf("迁移 %d (%s) 失败: %w", m.Version, m.Name, err)
		}
		applied++
	}

	log.Info("数据库迁移完成", "applied", applied, "version", current+int64(applied))
	return nil
}

// applyMigration 在一个事务中执行迁移语句并记录版本
func applyMigration(db *sqlx.DB, table string, m migration) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(m.Content) {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	query := tx.Rebind(fmt.Sprintf("INSERT INTO %s (version, applied_at) VALUES (?, ?)", table))
	if _, err := tx.Exec(query, m.Version, time.Now().UTC()); err != nil {
		return err
	}

	return tx.Commit()
}

func loadMigrations(driver, prefix string) ([]migration, error) {
	dir := path.Join("migrations", driver)
	entries, err := migrationsFS.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("驱动 %s 没有迁移文件: %w", driver, err)
	}

	var migrations []migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		base := strings.TrimSuffix(entry.Name(), ".sql")
		parts := strings.SplitN(base, "_", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("迁移文件名格式错误: %s", entry.Name())
		}
		version, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("迁移文件版本号错误: %s", entry.Name())
		}

		content, err := migrationsFS.ReadFile(path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		migrations = append(migrations, migration{
			Version: version,
			Name:    parts[1],
			Content: strings.ReplaceAll(string(content), prefixPlaceholder, prefix),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// splitStatements 按分号拆分语句，迁移文件中的语句内不允许出现分号
func splitStatements(content string) []string {
	var stmts []string
	for _, part := range strings.Split(content, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
