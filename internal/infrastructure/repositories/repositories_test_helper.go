package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		region TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createRefreshTokenTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE refresh_tokens (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		token TEXT UNIQUE NOT NULL,
		expires_at DATETIME NOT NULL,
		created_at DATETIME
	);`)
}

func createTaskTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		suggested_budget REAL NOT NULL,
		currency TEXT NOT NULL,
		urgency TEXT,
		target_date DATETIME,
		status TEXT NOT NULL,
		client_id TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createPaymentTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE payments (
		id TEXT PRIMARY KEY,
		task_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		amount REAL NOT NULL,
		currency TEXT NOT NULL,
		provider TEXT NOT NULL,
		provider_payment_id TEXT UNIQUE NOT NULL,
		status TEXT NOT NULL,
		transaction_id TEXT,
		verified_at DATETIME,
		created_at DATETIME
	);`)
}

func createTaskFileTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE task_files (
		id TEXT PRIMARY KEY,
		task_id TEXT NOT NULL,
		file_name TEXT NOT NULL,
		file_key TEXT UNIQUE NOT NULL,
		mime_type TEXT,
		size INTEGER NOT NULL,
		data BLOB,
		created_at DATETIME
	);`)
}

func createChatMessageTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE chat_messages (
		id TEXT PRIMARY KEY,
		task_id TEXT NOT NULL,
		sender_id TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME
	);`)
}

func createTaskAnalysisTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE task_analyses (
		id TEXT PRIMARY KEY,
		task_id TEXT UNIQUE NOT NULL,
		category TEXT,
		complexity TEXT,
		recommended_price REAL,
		priority_score INTEGER,
		risk_flags TEXT,
		created_at DATETIME
	);`)
}
