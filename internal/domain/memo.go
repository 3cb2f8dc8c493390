package domain

import (
	"time"
)

// PageSize is the number of memos shown on one history page.
const PageSize = 10

// DatetimeLayout keeps every key the same width so that string order matches time order.
const DatetimeLayout = "2006-01-02T15:04:05.000Z"

type Memo struct {
	Datetime string `json:"datetime"`
	Title    string `json:"title"`
	Text     string `json:"text"`
}

func FormatDatetime(t time.Time) string {
	return t.UTC().Format(DatetimeLayout)
}
