package usecase

import (
	"context"

	"github.com/AndrivA89/memo-editor/internal/domain"
)

type MemoRepository interface {
	Put(ctx context.Context, memo *domain.Memo) error
	Count(ctx context.Context) (int, error)
	// List returns memos newest first, skipping offset records.
	List(ctx context.Context, offset, limit int) ([]domain.Memo, error)
}
