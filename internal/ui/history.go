package ui

import (
	"context"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/AndrivA89/memo-editor/internal/domain"
	"github.com/AndrivA89/memo-editor/internal/usecase"
)

type HistoryView struct {
	useCase  *usecase.MemoUseCase
	window   fyne.Window
	onSelect func(domain.Memo)
	onBack   func()

	// mu guards pager and memos; store calls finish on worker goroutines.
	mu    sync.Mutex
	pager *Pager
	memos []domain.Memo

	list    *widget.List
	label   *widget.Label
	prevBtn *widget.Button
	nextBtn *widget.Button
	backBtn *widget.Button
}

// NewHistoryView loads the first page and the page count. onSelect receives the memo the user picked.
func NewHistoryView(
	uc *usecase.MemoUseCase,
	w fyne.Window,
	onSelect func(domain.Memo),
	onBack func(),
) *HistoryView {
	hv := &HistoryView{
		useCase:  uc,
		window:   w,
		pager:    NewPager(),
		memos:    []domain.Memo{},
		onSelect: onSelect,
		onBack:   onBack,
	}

	hv.list = widget.NewList(
		func() int {
			hv.mu.Lock()
			defer hv.mu.Unlock()
			return len(hv.memos)
		},
		func() fyne.CanvasObject {
			title := widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
			text := widget.NewLabel("")
			text.Truncation = fyne.TextTruncateEllipsis
			return container.NewVBox(title, text)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			memo, ok := hv.memoAt(id)
			if !ok {
				return
			}
			box := obj.(*fyne.Container)
			box.Objects[0].(*widget.Label).SetText(memo.Title)
			box.Objects[1].(*widget.Label).SetText(Preview(memo.Text))
		},
	)
	hv.list.OnSelected = func(id widget.ListItemID) {
		hv.list.UnselectAll()
		memo, ok := hv.memoAt(id)
		if !ok {
			return
		}
		if hv.onSelect != nil {
			hv.onSelect(memo)
		}
	}

	hv.label = widget.NewLabel("")
	hv.prevBtn = widget.NewButton("＜", func() {
		hv.movePage(hv.Page() - 1)
	})
	hv.nextBtn = widget.NewButton("＞", func() {
		hv.movePage(hv.Page() + 1)
	})
	hv.backBtn = widget.NewButton("Back to editor", func() {
		if hv.onBack != nil {
			hv.onBack()
		}
	})
	hv.refreshPaging()

	go hv.load()
	return hv
}

func (hv *HistoryView) Content() fyne.CanvasObject {
	header := container.NewBorder(nil, nil, widget.NewLabel("History"), hv.backBtn)
	paging := container.NewCenter(container.NewHBox(hv.prevBtn, hv.label, hv.nextBtn))
	return container.NewBorder(header, paging, nil, nil, hv.list)
}

func (hv *HistoryView) Page() int {
	hv.mu.Lock()
	defer hv.mu.Unlock()
	return hv.pager.Page()
}

// Memos returns a copy of the memos currently listed.
func (hv *HistoryView) Memos() []domain.Memo {
	hv.mu.Lock()
	defer hv.mu.Unlock()
	return append([]domain.Memo(nil), hv.memos...)
}

func (hv *HistoryView) memoAt(id widget.ListItemID) (domain.Memo, bool) {
	hv.mu.Lock()
	defer hv.mu.Unlock()
	if id < 0 || id >= len(hv.memos) {
		return domain.Memo{}, false
	}
	return hv.memos[id], true
}

func (hv *HistoryView) load() {
	ctx := context.Background()

	memos, err := hv.useCase.GetPage(ctx, 1)
	if err != nil {
		dialog.ShowError(err, hv.window)
		return
	}
	hv.showPage(1, memos)

	pages, err := hv.useCase.PageCount(ctx)
	if err != nil {
		dialog.ShowError(err, hv.window)
		return
	}
	hv.mu.Lock()
	hv.pager.SetMax(pages)
	hv.mu.Unlock()
	hv.refreshPaging()
}

func (hv *HistoryView) movePage(target int) {
	hv.mu.Lock()
	moved := hv.pager.Move(target)
	hv.mu.Unlock()
	if !moved {
		return
	}
	hv.refreshPaging()

	go func() {
		memos, err := hv.useCase.GetPage(context.Background(), target)
		if err != nil {
			dialog.ShowError(err, hv.window)
			return
		}
		hv.showPage(target, memos)
	}()
}

// showPage drops results for a page the user has already left.
func (hv *HistoryView) showPage(page int, memos []domain.Memo) {
	hv.mu.Lock()
	if hv.pager.Page() != page {
		hv.mu.Unlock()
		return
	}
	hv.memos = memos
	hv.mu.Unlock()

	hv.list.Refresh()
	hv.list.ScrollToTop()
}

func (hv *HistoryView) refreshPaging() {
	hv.mu.Lock()
	label, canPrev, canNext := hv.pager.Label(), hv.pager.CanPrev(), hv.pager.CanNext()
	hv.mu.Unlock()

	hv.label.SetText(label)
	if canPrev {
		hv.prevBtn.Enable()
	} else {
		hv.prevBtn.Disable()
	}
	if canNext {
		hv.nextBtn.Enable()
	} else {
		hv.nextBtn.Disable()
	}
}
