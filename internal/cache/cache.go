package cache

import (
	"crypto/sha256"
	"database/sql"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"

	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oxhq/lintcore/internal/diag"
)

// Cache wraps a gorm.DB connection to the on-disk (or libsql-remote) cache
// database.
type Cache struct {
	db *gorm.DB
}

// Open opens the local sqlite file at path and ensures the schema exists.
// A libsql:// remote cache goes through OpenRemote instead.
func Open(path string) (*Cache, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &Cache{db: db}, nil
}

// OpenRemote connects to a libsql remote database (e.g. Turso) as the cache
// backend instead of a local sqlite file, for teams sharing one cache
// across CI runners. dsn is a libsql:// connection string; the auth token,
// if any, comes from LINTCORE_LIBSQL_AUTH_TOKEN.
func OpenRemote(dsn string) (*Cache, error) {
	var (
		connector driver.Connector
		err       error
	)
	if token := os.Getenv("LINTCORE_LIBSQL_AUTH_TOKEN"); token != "" {
		connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
	} else {
		connector, err = libsql.NewConnector(dsn)
	}
	if err != nil {
		return nil, err
	}

	conn := sql.OpenDB(connector)
	dialector := sqlite.New(sqlite.Config{DriverName: "libsql", Conn: conn, DSN: dsn})

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &Cache{db: db}, nil
}

// HashSource returns the cache key component for a file's content.
func HashSource(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// HashSettings returns the cache key component for a Settings value,
// derived from its sorted enabled-code list plus sub-settings — anything
// that changes the Settings value must change this hash, so a settings
// change invalidates every cached entry it could have affected.
func HashSettings(sortedEnabledCodes []string, lineLength int, targetVersion string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(sortedEnabledCodes, ",")))
	h.Write([]byte(targetVersion))
	h.Write([]byte{byte(lineLength), byte(lineLength >> 8)})
	return hex.EncodeToString(h.Sum(nil))
}

// Get looks up a cached diagnostics list for the given key triple. The
// bool return is false on a cache miss (including a settings_hash
// mismatch, which the caller treats identically to "not cached").
func (c *Cache) Get(path, sourceHash, settingsHash string) ([]diag.Diagnostic, bool) {
	var e Entry
	err := c.db.Where("file_path = ? AND source_hash = ? AND settings_hash = ?", path, sourceHash, settingsHash).First(&e).Error
	if err != nil {
		return nil, false
	}
	var ds []diag.Diagnostic
	if err := json.Unmarshal(e.Diagnostics, &ds); err != nil {
		return nil, false
	}
	return ds, true
}

// Put stores (or replaces) the cached result for path under the given key.
func (c *Cache) Put(path, sourceHash, settingsHash string, ds []diag.Diagnostic) error {
	payload, err := json.Marshal(ds)
	if err != nil {
		return err
	}
	e := Entry{FilePath: path, SourceHash: sourceHash, SettingsHash: settingsHash, Diagnostics: payload}
	return c.db.Where("file_path = ?", path).
		Assign(Entry{SourceHash: sourceHash, SettingsHash: settingsHash, Diagnostics: payload}).
		FirstOrCreate(&e).Error
}

// InvalidateAll drops every cached entry — used on a settings change the
// caller doesn't want to key around, or an explicit `lintcore cache clear`.
func (c *Cache) InvalidateAll() error {
	return c.db.Where("1 = 1").Delete(&Entry{}).Error
}

// Close releases the underlying database connection.
func (c *Cache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
