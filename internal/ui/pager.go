package ui

import (
	"fmt"
	"strings"
)

// Pager tracks the visible history page. Both page and max start at 1.
type Pager struct {
	page int
	max  int
}

func NewPager() *Pager {
	return &Pager{page: 1, max: 1}
}

func (p *Pager) Page() int { return p.page }

func (p *Pager) Max() int { return p.max }

func (p *Pager) SetMax(max int) {
	if max < 1 {
		max = 1
	}
	p.max = max
}

func (p *Pager) CanPrev() bool { return p.page > 1 }

func (p *Pager) CanNext() bool { return p.page < p.max }

// Move switches to target and reports whether it did. Targets outside [1, max] are ignored.
func (p *Pager) Move(target int) bool {
	if target < 1 || target > p.max {
		return false
	}
	p.page = target
	return true
}

func (p *Pager) Label() string {
	return fmt.Sprintf("%d / %d", p.page, p.max)
}

// Preview returns the first non-blank line of a memo's text.
func Preview(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
