package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/AndrivA89/memo-editor/internal/domain"
	"github.com/AndrivA89/memo-editor/internal/usecase"
)

type EditorView struct {
	useCase    *usecase.MemoUseCase
	window     fyne.Window
	title      *widget.Entry
	text       *widget.Entry
	preview    *widget.RichText
	saveBtn    *widget.Button
	historyBtn *widget.Button
	onHistory  func()
}

func NewEditorView(uc *usecase.MemoUseCase, w fyne.Window, onHistory func()) *EditorView {
	ev := &EditorView{
		useCase:   uc,
		window:    w,
		title:     widget.NewEntry(),
		text:      widget.NewMultiLineEntry(),
		preview:   widget.NewRichTextFromMarkdown(""),
		onHistory: onHistory,
	}
	ev.title.SetPlaceHolder("Title")
	ev.text.Wrapping = fyne.TextWrapWord
	ev.preview.Wrapping = fyne.TextWrapWord
	ev.text.OnChanged = func(s string) {
		ev.preview.ParseMarkdown(s)
	}
	ev.saveBtn = widget.NewButton("Save", ev.save)
	ev.historyBtn = widget.NewButton("History", func() {
		if ev.onHistory != nil {
			ev.onHistory()
		}
	})
	return ev
}

// SetText replaces the editor body, e.g. with a memo picked from the history.
func (ev *EditorView) SetText(text string) {
	ev.text.SetText(text)
	ev.preview.ParseMarkdown(text)
}

func (ev *EditorView) Text() string {
	return ev.text.Text
}

func (ev *EditorView) Content() fyne.CanvasObject {
	header := container.NewBorder(nil, nil, widget.NewLabel("Markdown Editor"), container.NewHBox(ev.saveBtn, ev.historyBtn))
	split := container.NewHSplit(ev.text, container.NewVScroll(ev.preview))
	return container.NewBorder(container.NewVBox(header, ev.title), nil, nil, nil, split)
}

func (ev *EditorView) save() {
	title, text := ev.title.Text, ev.text.Text
	go func() {
		if err := ev.useCase.Save(context.Background(), title, text); err != nil {
			dialog.ShowError(err, ev.window)
			return
		}
		dialog.ShowInformation("Saved", "Memo saved to history", ev.window)
	}()
}

// MainWindow switches one window between the editor and the history.
type MainWindow struct {
	Window fyne.Window
	Editor *EditorView

	useCase       *usecase.MemoUseCase
	editorContent fyne.CanvasObject
	history       *HistoryView
}

func NewMainWindow(a fyne.App, uc *usecase.MemoUseCase) *MainWindow {
	w := a.NewWindow("Markdown Editor")
	w.Resize(fyne.NewSize(900, 600))

	m := &MainWindow{
		Window:  w,
		useCase: uc,
	}
	m.Editor = NewEditorView(uc, w, m.ShowHistory)
	m.editorContent = m.Editor.Content()
	m.ShowEditor()
	return m
}

func (m *MainWindow) ShowEditor() {
	m.Window.SetContent(m.editorContent)
}

// ShowHistory opens a fresh history view; picking a memo loads its text into the editor.
func (m *MainWindow) ShowHistory() {
	m.history = NewHistoryView(m.useCase, m.Window, func(memo domain.Memo) {
		m.Editor.SetText(memo.Text)
		m.ShowEditor()
	}, m.ShowEditor)
	m.Window.SetContent(m.history.Content())
}

// History returns the last opened history view, or nil.
func (m *MainWindow) History() *HistoryView {
	return m.history
}
