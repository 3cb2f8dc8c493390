package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/AndrivA89/memo-editor/internal/config"
	"github.com/AndrivA89/memo-editor/internal/domain"
)

var (
	ErrSchemaVersion = errors.New("unsupported memo schema version")
	ErrInvalidRange  = errors.New("invalid memo range")
)

// Open opens the database file at path, creating its directory when needed.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection lets SQLite serialise every memo operation.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

type MemoRepository struct {
	db     *sql.DB
	schema config.Schema
	logger *zap.Logger
}

func NewMemoRepository(db *sql.DB, schema config.Schema, logger *zap.Logger) (*MemoRepository, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoRepository{
		db:     db,
		schema: schema,
		logger: logger,
	}, nil
}

// Init creates the memo table on a fresh database and checks the stored schema version.
func (r *MemoRepository) Init(ctx context.Context) error {
	var version int
	if err := r.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != 0 && version != r.schema.Version {
		return fmt.Errorf("%w: found %d, want %d", ErrSchemaVersion, version, r.schema.Version)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin init: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			%s TEXT NOT NULL PRIMARY KEY,
			title TEXT NOT NULL,
			text TEXT NOT NULL
		)`, r.schema.Table, r.schema.Key)
	if _, err = tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create %s table: %w", r.schema.Table, err)
	}
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", r.schema.Version)); err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit init: %w", err)
	}

	r.logger.Debug("memo table ready",
		zap.String("table", r.schema.Table),
		zap.Int("version", r.schema.Version))
	return nil
}

func (r *MemoRepository) Put(ctx context.Context, memo *domain.Memo) error {
	query := fmt.Sprintf(`INSERT OR REPLACE INTO %s (%s, title, text) VALUES (?, ?, ?)`,
		r.schema.Table, r.schema.Key)
	if _, err := r.db.ExecContext(ctx, query, memo.Datetime, memo.Title, memo.Text); err != nil {
		return fmt.Errorf("insert memo: %w", err)
	}
	return nil
}

func (r *MemoRepository) Count(ctx context.Context) (int, error) {
	var total int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.schema.Table)
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("count memos: %w", err)
	}
	return total, nil
}

func (r *MemoRepository) List(ctx context.Context, offset, limit int) ([]domain.Memo, error) {
	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("%w: offset %d, limit %d", ErrInvalidRange, offset, limit)
	}
	query := fmt.Sprintf(`SELECT %s, title, text FROM %s ORDER BY %s DESC LIMIT ? OFFSET ?`,
		r.schema.Key, r.schema.Table, r.schema.Key)
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query memos: %w", err)
	}
	defer rows.Close()

	memos := []domain.Memo{}
	for rows.Next() {
		var m domain.Memo
		if err = rows.Scan(&m.Datetime, &m.Title, &m.Text); err != nil {
			return nil, fmt.Errorf("scan memo: %w", err)
		}
		memos = append(memos, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memos: %w", err)
	}
	return memos, nil
}
