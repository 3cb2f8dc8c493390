package neo4jstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/AndrivA89/memo-editor/internal/config"
	"github.com/AndrivA89/memo-editor/internal/domain"
)

var ErrInvalidRange = errors.New("invalid memo range")

// MemoRepository keeps memos as nodes labelled after the schema table, e.g. (:memos {datetime, title, text}).
type MemoRepository struct {
	driver neo4j.DriverWithContext
	schema config.Schema
	logger *zap.Logger
}

func NewMemoRepository(driver neo4j.DriverWithContext, schema config.Schema, logger *zap.Logger) (*MemoRepository, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoRepository{
		driver: driver,
		schema: schema,
		logger: logger,
	}, nil
}

func (r *MemoRepository) closeSession(ctx context.Context, session neo4j.SessionWithContext) {
	if err := session.Close(ctx); err != nil {
		r.logger.Warn("failed to close neo4j session", zap.Error(err))
	}
}

// Init creates the uniqueness constraint that backs the datetime key.
func (r *MemoRepository) Init(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer r.closeSession(ctx, session)

	query := fmt.Sprintf(
		"CREATE CONSTRAINT %s_%s_unique IF NOT EXISTS FOR (m:%s) REQUIRE m.%s IS UNIQUE",
		r.schema.Table, r.schema.Key, r.schema.Table, r.schema.Key,
	)
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		_, err = result.Consume(ctx)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("create %s constraint: %w", r.schema.Table, err)
	}

	r.logger.Debug("memo constraint ready", zap.String("label", r.schema.Table))
	return nil
}

func (r *MemoRepository) Put(ctx context.Context, memo *domain.Memo) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer r.closeSession(ctx, session)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := fmt.Sprintf(`
			MERGE (m:%s {%s: $datetime})
			SET m.title = $title,
			    m.text = $text
		`, r.schema.Table, r.schema.Key)

		params := map[string]interface{}{
			"datetime": memo.Datetime,
			"title":    memo.Title,
			"text":     memo.Text,
		}

		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		_, err = result.Consume(ctx)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("merge memo: %w", err)
	}
	return nil
}

func (r *MemoRepository) Count(ctx context.Context) (int, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer r.closeSession(ctx, session)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := fmt.Sprintf("MATCH (m:%s) RETURN count(m) AS total", r.schema.Table)

		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}

		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}

		total, _ := record.Get("total")
		n, ok := total.(int64)
		if !ok {
			return nil, fmt.Errorf("unexpected type for 'total' column")
		}
		return int(n), nil
	})
	if err != nil {
		return 0, fmt.Errorf("count memos: %w", err)
	}
	return result.(int), nil
}

func (r *MemoRepository) List(ctx context.Context, offset, limit int) ([]domain.Memo, error) {
	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("%w: offset %d, limit %d", ErrInvalidRange, offset, limit)
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer r.closeSession(ctx, session)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		query := fmt.Sprintf(`
			MATCH (m:%s)
			RETURN m.%s AS datetime, m.title AS title, m.text AS text
			ORDER BY m.%s DESC
			SKIP $offset
			LIMIT $limit
		`, r.schema.Table, r.schema.Key, r.schema.Key)

		params := map[string]interface{}{
			"offset": int64(offset),
			"limit":  int64(limit),
		}

		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		memos := []domain.Memo{}
		for res.Next(ctx) {
			record := res.Record()
			memo := domain.Memo{}
			if v, ok := record.Get("datetime"); ok {
				memo.Datetime, _ = v.(string)
			}
			if v, ok := record.Get("title"); ok {
				memo.Title, _ = v.(string)
			}
			if v, ok := record.Get("text"); ok {
				memo.Text, _ = v.(string)
			}
			memos = append(memos, memo)
		}
		if err = res.Err(); err != nil {
			return nil, err
		}
		return memos, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list memos: %w", err)
	}
	return result.([]domain.Memo), nil
}
