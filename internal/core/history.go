package core

import (
	"time"
)

// DefaultHistoryLimit caps the quick history
const DefaultHistoryLimit = 10

// QuickHistory is the capped, newest-first list of analyses made in this session
type QuickHistory struct {
	items []QuickHistoryItem
	limit int
}

// NewQuickHistory creates a quick history holding at most limit items
func NewQuickHistory(limit int) *QuickHistory {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &QuickHistory{
		items: make([]QuickHistoryItem, 0, limit),
		limit: limit,
	}
}

// Add prepends an item and drops the oldest beyond the cap
func (h *QuickHistory) Add(item QuickHistoryItem) {
	h.items = append([]QuickHistoryItem{item}, h.items...)
	if len(h.items) > h.limit {
		h.items = h.items[:h.limit]
	}
}

// Items returns a copy of the items, newest first
func (h *QuickHistory) Items() []QuickHistoryItem {
	out := make([]QuickHistoryItem, len(h.items))
	copy(out, h.items)
	return out
}

// Len returns the number of items held
func (h *QuickHistory) Len() int {
	return len(h.items)
}

// View shapes the quick history for display
func (h *QuickHistory) View() []HistoryItemView {
	views := make([]HistoryItemView, 0, len(h.items))
	for _, item := range h.items {
		views = append(views, HistoryItemView{
			EmailPreview: item.EmailPreview,
			Result:       item.Result,
			StatusClass:  ClassifyResult(item.Result),
			Timestamp:    item.AnalyzedAt.Format(time.TimeOnly),
		})
	}
	return views
}
