package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/gin-blog/config"
	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/pkg/logger"
)

// InitDB 根据配置打开数据库连接
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.New(zap.NewStdLog(logger.L()), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = gorm.Open(postgres.Open(cfg.Database.DSN), gormCfg)
	case "sqlite", "":
		dsn, derr := sqliteDSN(cfg.Database.DSN)
		if derr != nil {
			return nil, derr
		}
		db, err = gorm.Open(sqlite.Open(dsn), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Database.Driver == "postgres" {
		if cfg.Database.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		}
		if cfg.Database.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		}
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		// sqlite 同一时刻只有一个写者，单连接同时保证 :memory: 库在连接间一致
		sqlDB.SetMaxOpenConns(1)
	}

	logger.Info("database connected", zap.String("driver", cfg.Database.Driver))
	return db, nil
}

// sqliteDSN 为文件库创建父目录，并打开外键约束
func sqliteDSN(dsn string) (string, error) {
	if dsn == "" {
		dsn = "data/blog.db"
	}
	path := dsn
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimPrefix(path, "file:")
	if path != ":memory:" && path != "" && !strings.Contains(dsn, "mode=memory") {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("create data dir %s: %w", dir, err)
			}
		}
	}
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn, nil
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on", nil
	}
	return dsn + "?_foreign_keys=on", nil
}

// Migrate 初始化表结构，可重复执行。
// 已存在的表只补齐缺失的列和索引，不改写已有列，兼容非本程序建出的 blog.db。
func Migrate(db *gorm.DB) error {
	m := db.Migrator()
	for _, table := range []interface{}{&model.User{}, &model.Post{}} {
		if !m.HasTable(table) {
			if err := m.CreateTable(table); err != nil {
				return fmt.Errorf("failed to migrate tables: %w", err)
			}
			continue
		}
		if err := upgradeTable(db, table); err != nil {
			return err
		}
	}
	logger.Info("database migrated")
	return nil
}

// upgradeTable 按模型补齐列和索引
func upgradeTable(db *gorm.DB, table interface{}) error {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(table); err != nil {
		return fmt.Errorf("parse model: %w", err)
	}
	m := db.Migrator()
	for _, column := range stmt.Schema.DBNames {
		if m.HasColumn(table, column) {
			continue
		}
		if err := m.AddColumn(table, column); err != nil {
			return fmt.Errorf("failed to add %s.%s column: %w", stmt.Schema.Table, column, err)
		}
		logger.Info("added missing column", zap.String("table", stmt.Schema.Table), zap.String("column", column))
	}
	for _, idx := range stmt.Schema.ParseIndexes() {
		if m.HasIndex(table, idx.Name) {
			continue
		}
		if err := m.CreateIndex(table, idx.Name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.Name, err)
		}
	}
	return nil
}

// Close 关闭底层连接
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
