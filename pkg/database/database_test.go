package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/gin-blog/config"
	"github.com/d60-Lab/gin-blog/internal/model"
)

func sqliteConfig(dsn string) *config.Config {
	return &config.Config{Database: config.DatabaseConfig{Driver: "sqlite", DSN: dsn}}
}

func TestSqliteDSN(t *testing.T) {
	dsn, err := sqliteDSN(":memory:")
	require.NoError(t, err)
	assert.Equal(t, ":memory:?_foreign_keys=on", dsn)

	dsn, err = sqliteDSN("file:x?mode=memory&cache=shared")
	require.NoError(t, err)
	assert.Equal(t, "file:x?mode=memory&cache=shared&_foreign_keys=on", dsn)

	dsn, err = sqliteDSN("a.db?_foreign_keys=off")
	require.NoError(t, err)
	assert.Equal(t, "a.db?_foreign_keys=off", dsn)
}

func TestInitDB_CreatesDataDirAndMigratesTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "blog.db")

	db, err := InitDB(sqliteConfig(path))
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, Migrate(db))
	// 重复迁移不报错
	require.NoError(t, Migrate(db))

	assert.FileExists(t, path)
	assert.True(t, db.Migrator().HasTable(&model.User{}))
	assert.True(t, db.Migrator().HasTable(&model.Post{}))
	assert.True(t, db.Migrator().HasColumn(&model.Post{}, "Abstract"))
}

// 旧版 Node 服务建出的表结构
const legacyUsersDDL = `CREATE TABLE IF NOT EXISTS users (
      id INTEGER PRIMARY KEY AUTOINCREMENT,
      username TEXT UNIQUE NOT NULL,
      password TEXT NOT NULL,
      created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    )`

const legacyPostsDDL = `CREATE TABLE IF NOT EXISTS posts (
      id INTEGER PRIMARY KEY AUTOINCREMENT,
      title TEXT NOT NULL,
      abstract TEXT NOT NULL DEFAULT '',
      content TEXT NOT NULL,
      category TEXT NOT NULL,
      author_id INTEGER NOT NULL,
      created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
      updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
      FOREIGN KEY (author_id) REFERENCES users(id)
    )`

// 缺少 abstract 列的更早版本
const olderPostsDDL = `CREATE TABLE IF NOT EXISTS posts (
      id INTEGER PRIMARY KEY AUTOINCREMENT,
      title TEXT NOT NULL,
      content TEXT NOT NULL,
      category TEXT NOT NULL,
      author_id INTEGER NOT NULL,
      created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
      updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
      FOREIGN KEY (author_id) REFERENCES users(id)
    )`

func seedLegacy(t *testing.T, postsDDL string, withAbstract bool) *gorm.DB {
	t.Helper()
	db, err := InitDB(sqliteConfig(":memory:"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, db.Exec(legacyUsersDDL).Error)
	require.NoError(t, db.Exec(postsDDL).Error)
	require.NoError(t, db.Exec(`INSERT INTO users (username, password) VALUES ('admin', 'legacy-hash')`).Error)
	if withAbstract {
		require.NoError(t, db.Exec(`INSERT INTO posts (title, abstract, content, category, author_id) VALUES ('t', 'a', 'c', 'dynamics', 1)`).Error)
	} else {
		require.NoError(t, db.Exec(`INSERT INTO posts (title, content, category, author_id) VALUES ('t', 'c', 'dynamics', 1)`).Error)
	}
	return db
}

func TestMigrate_ExistingLegacySchema(t *testing.T) {
	db := seedLegacy(t, legacyPostsDDL, true)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	var u model.User
	require.NoError(t, db.Where("username = ?", "admin").First(&u).Error)
	assert.Equal(t, "legacy-hash", u.PasswordHash)

	var p model.Post
	require.NoError(t, db.First(&p).Error)
	assert.Equal(t, "a", p.Abstract)
	assert.Equal(t, u.ID, p.AuthorID)
	assert.False(t, p.CreatedAt.IsZero())

	m := db.Migrator()
	assert.True(t, m.HasIndex(&model.User{}, "idx_users_username"))
	assert.True(t, m.HasIndex(&model.Post{}, "idx_post_author"))
	assert.True(t, m.HasIndex(&model.Post{}, "idx_post_category_created"))

	// 迁移后照常写入
	require.NoError(t, db.Create(&model.Post{Title: "n", Content: "c", Category: model.CategoryDynamics, AuthorID: u.ID}).Error)
	err := db.Create(&model.User{Username: "admin", PasswordHash: "x"}).Error
	assert.Error(t, err, "username stays unique")
}

func TestMigrate_AddsMissingAbstractColumn(t *testing.T) {
	db := seedLegacy(t, olderPostsDDL, false)

	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasColumn(&model.Post{}, "abstract"))
	// 已存在时不再修改
	require.NoError(t, Migrate(db))

	var p model.Post
	require.NoError(t, db.First(&p).Error)
	assert.Equal(t, "", p.Abstract)
	assert.Equal(t, "t", p.Title)
}

func TestInitDB_UnsupportedDriver(t *testing.T) {
	_, err := InitDB(&config.Config{Database: config.DatabaseConfig{Driver: "mysql"}})
	assert.Error(t, err)
}
