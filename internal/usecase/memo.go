package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/AndrivA89/memo-editor/internal/domain"
)

type MemoUseCase struct {
	repo   MemoRepository
	now    func() time.Time
	logger *zap.Logger
}

type Option func(*MemoUseCase)

// WithClock replaces time.Now as the source of memo keys.
func WithClock(now func() time.Time) Option {
	return func(uc *MemoUseCase) {
		uc.now = now
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(uc *MemoUseCase) {
		if logger != nil {
			uc.logger = logger
		}
	}
}

func NewMemoUseCase(repo MemoRepository, opts ...Option) *MemoUseCase {
	uc := &MemoUseCase{
		repo:   repo,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *MemoUseCase) Save(ctx context.Context, title, text string) error {
	memo := &domain.Memo{
		Datetime: domain.FormatDatetime(uc.now()),
		Title:    title,
		Text:     text,
	}
	if err := uc.repo.Put(ctx, memo); err != nil {
		return fmt.Errorf("save memo: %w", err)
	}
	uc.logger.Debug("memo saved", zap.String("datetime", memo.Datetime))
	return nil
}

// PageCount never reports fewer than one page so an empty history still shows "1 / 1".
func (uc *MemoUseCase) PageCount(ctx context.Context) (int, error) {
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count memos: %w", err)
	}
	pages := (total + domain.PageSize - 1) / domain.PageSize
	if pages < 1 {
		pages = 1
	}
	return pages, nil
}

// GetPage returns the 1-indexed page of memos, newest first. Pages outside the
// stored range come back empty; range checks belong to the caller.
func (uc *MemoUseCase) GetPage(ctx context.Context, page int) ([]domain.Memo, error) {
	// Pages past math.MaxInt/PageSize cannot hold a memo and would overflow the offset.
	if page < 1 || page > math.MaxInt/domain.PageSize {
		return []domain.Memo{}, nil
	}
	offset := (page - 1) * domain.PageSize
	memos, err := uc.repo.List(ctx, offset, domain.PageSize)
	if err != nil {
		return nil, fmt.Errorf("get page %d: %w", page, err)
	}
	if memos == nil {
		memos = []domain.Memo{}
	}
	uc.logger.Debug("page loaded", zap.Int("page", page), zap.Int("memos", len(memos)))
	return memos, nil
}
