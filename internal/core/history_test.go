package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuickHistory_Cap(t *testing.T) {
	h := NewQuickHistory(DefaultHistoryLimit)
	for i := 0; i < 15; i++ {
		h.Add(QuickHistoryItem{EmailPreview: fmt.Sprintf("email %d", i)})
		assert.LessOrEqual(t, h.Len(), DefaultHistoryLimit)
	}

	items := h.Items()
	require.Len(t, items, DefaultHistoryLimit)
	assert.Equal(t, "email 14", items[0].EmailPreview)
	assert.Equal(t, "email 5", items[len(items)-1].EmailPreview)
}

func TestQuickHistory_DefaultLimit(t *testing.T) {
	h := NewQuickHistory(0)
	for i := 0; i < 12; i++ {
		h.Add(QuickHistoryItem{})
	}
	assert.Equal(t, DefaultHistoryLimit, h.Len())
}

func TestQuickHistory_ItemsIsCopy(t *testing.T) {
	h := NewQuickHistory(3)
	h.Add(QuickHistoryItem{EmailPreview: "a"})

	items := h.Items()
	items[0].EmailPreview = "changed"
	assert.Equal(t, "a", h.Items()[0].EmailPreview)
}

func TestQuickHistory_View(t *testing.T) {
	h := NewQuickHistory(3)
	at := time.Date(2024, 5, 1, 14, 3, 9, 0, time.UTC)
	h.Add(QuickHistoryItem{EmailPreview: "Win a prize...", Result: "HIGH RISK - Phishing", Confidence: 20, AnalyzedAt: at})

	views := h.View()
	require.Len(t, views, 1)
	// Quick history rows are classified from the result text
	assert.Equal(t, StatusDanger, views[0].StatusClass)
	assert.Equal(t, "14:03:09", views[0].Timestamp)
}
