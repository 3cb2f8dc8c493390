package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/AndrivA89/memo-editor/internal/domain"
)

func newUICmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the desktop editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, opts)
		},
	}
}

func newSaveCmd(opts *options) *cobra.Command {
	var title, file string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a memo",
		Long: `Saves a memo keyed by the current time. The text is read from
--file, or from stdin when no file is given.

Example:
  memo save --title "Shopping" --file list.md
  echo "# idea" | memo save --title Idea`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if file != "" {
				data, err = os.ReadFile(file)
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read memo text: %w", err)
			}

			uc, closeFn, err := openMemoUseCase(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer closeFn()

			if err = uc.Save(cmd.Context(), title, string(data)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "saved")
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "memo title")
	cmd.Flags().StringVar(&file, "file", "", "read memo text from this file")
	return cmd
}

func newPagesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pages",
		Short: "Print the number of history pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, closeFn, err := openMemoUseCase(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer closeFn()

			pages, err := uc.PageCount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pages)
			return nil
		},
	}
}

func newHistoryCmd(opts *options) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "history [page]",
		Short: "Print a page of memos, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid page %q: %w", args[0], err)
				}
				page = n
			}

			uc, closeFn, err := openMemoUseCase(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer closeFn()

			memos, err := uc.GetPage(cmd.Context(), page)
			if err != nil {
				return err
			}
			pages, err := uc.PageCount(cmd.Context())
			if err != nil {
				return err
			}

			md := historyMarkdown(memos, page, pages)
			if raw {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}
			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(80),
			)
			if err != nil {
				return fmt.Errorf("create markdown renderer: %w", err)
			}
			out, err := renderer.Render(md)
			if err != nil {
				return fmt.Errorf("render history: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without terminal styling")
	return cmd
}

func historyMarkdown(memos []domain.Memo, page, pages int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# History %d / %d\n\n", page, pages)
	if len(memos) == 0 {
		b.WriteString("_No memos on this page._\n")
		return b.String()
	}
	for _, m := range memos {
		title := m.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(&b, "## %s\n\n`%s`\n\n%s\n\n---\n\n", title, m.Datetime, m.Text)
	}
	return b.String()
}
