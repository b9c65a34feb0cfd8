package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/mikey/mailguard/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/net/html"
)

func newTestHTMLRenderer(t *testing.T) *HTMLRenderer {
	t.Helper()
	r, err := NewHTMLRenderer(zaptest.NewLogger(t))
	require.NoError(t, err)
	return r
}

func parse(t *testing.T, fragment string) *html.Node {
	t.Helper()
	doc, err := htmlquery.Parse(strings.NewReader(fragment))
	require.NoError(t, err)
	return doc
}

func TestHTMLRenderer_RenderDemo(t *testing.T) {
	r := newTestHTMLRenderer(t)

	phishing, err := core.Demo(core.DemoPhishing)
	require.NoError(t, err)
	require.NoError(t, r.RenderDemo(core.BuildDemoView(phishing)))

	doc := parse(t, r.Region(RegionDemo))
	assert.Len(t, htmlquery.Find(doc, "//div[@class='indicator']"), 4)

	status := htmlquery.FindOne(doc, "//div[@id='resultStatus']")
	require.NotNil(t, status)
	assert.Equal(t, "result-status danger", htmlquery.SelectAttr(status, "class"))

	text := htmlquery.FindOne(doc, "//div[@id='confidenceText']")
	require.NotNil(t, text)
	assert.Equal(t, "85% confidence", htmlquery.InnerText(text))

	fill := htmlquery.FindOne(doc, "//div[@id='confidenceFill']")
	require.NotNil(t, fill)
	assert.Contains(t, htmlquery.SelectAttr(fill, "style"), "width: 85%")
}

func TestHTMLRenderer_RenderDemoSafe(t *testing.T) {
	r := newTestHTMLRenderer(t)

	safe, err := core.Demo(core.DemoSafe)
	require.NoError(t, err)
	require.NoError(t, r.RenderDemo(core.BuildDemoView(safe)))

	doc := parse(t, r.Region(RegionDemo))
	assert.Empty(t, htmlquery.Find(doc, "//div[@class='indicator']"))

	placeholder := htmlquery.FindOne(doc, "//p[@class='indicators-placeholder']")
	require.NotNil(t, placeholder)
	assert.Equal(t, "✅ No suspicious indicators found", htmlquery.InnerText(placeholder))
}

func TestHTMLRenderer_RenderResult(t *testing.T) {
	r := newTestHTMLRenderer(t)
	r.RenderResult(core.BuildResultView(core.AnalysisResult{
		Result:     "MEDIUM RISK <script>",
		Confidence: 55,
		Indicators: []string{"Odd sender"},
	}))

	doc := parse(t, r.Region(RegionResult))

	status := htmlquery.FindOne(doc, "//div[@id='resultStatus']")
	require.NotNil(t, status)
	assert.Equal(t, "MEDIUM RISK <script>", htmlquery.InnerText(status))
	assert.Nil(t, htmlquery.FindOne(doc, "//script"))

	assert.Len(t, htmlquery.Find(doc, "//div[@id='indicatorsList']/div[@class='indicator']"), 1)
	assert.Len(t, htmlquery.Find(doc, "//div[@id='recommendationsList']/div[@class='recommendation']"), 3)
}

func TestHTMLRenderer_History(t *testing.T) {
	r := newTestHTMLRenderer(t)

	r.RenderHistory(core.HistoryView{Empty: true})
	doc := parse(t, r.Region(RegionHistory))
	assert.NotNil(t, htmlquery.FindOne(doc, "//div[@class='history-placeholder']"))

	r.RenderHistory(core.BuildHistoryView([]core.HistoryEntry{
		{EmailPreview: "a", Result: "HIGH RISK", Confidence: 80, Timestamp: "t1"},
		{EmailPreview: "b", Result: "LOW RISK", Confidence: 10, Timestamp: "t2"},
	}))
	doc = parse(t, r.Region(RegionHistory))
	items := htmlquery.Find(doc, "//div[@class='history-item']")
	require.Len(t, items, 2)
	assert.NotNil(t, htmlquery.FindOne(items[0], ".//div[@class='history-result danger']"))
}

func TestHTMLRenderer_QuickHistoryStacksOnPersisted(t *testing.T) {
	r := newTestHTMLRenderer(t)

	entries := make([]core.HistoryEntry, 0, core.DefaultHistoryLimit)
	for i := 0; i < core.DefaultHistoryLimit; i++ {
		entries = append(entries, core.HistoryEntry{EmailPreview: fmt.Sprintf("old %d", i), Result: "LOW RISK", Confidence: 10})
	}
	r.RenderHistory(core.BuildHistoryView(entries))

	r.RenderQuickHistory([]core.HistoryItemView{
		{EmailPreview: "newest", Result: "HIGH RISK", StatusClass: core.StatusDanger},
		{EmailPreview: "older quick", Result: "LOW RISK", StatusClass: core.StatusSafe},
	})

	doc := parse(t, r.Region(RegionHistory))
	items := htmlquery.Find(doc, "//div[@class='history-item']")
	require.Len(t, items, core.DefaultHistoryLimit)
	assert.Equal(t, "newest", htmlquery.InnerText(htmlquery.FindOne(items[0], ".//div[@class='history-email']")))
	assert.Equal(t, "old 0", htmlquery.InnerText(htmlquery.FindOne(items[1], ".//div[@class='history-email']")))
	assert.NotContains(t, r.Region(RegionHistory), "old 9")
	assert.NotContains(t, r.Region(RegionHistory), "older quick")
}

func TestHTMLRenderer_QuickHistoryReplacesPlaceholder(t *testing.T) {
	r := newTestHTMLRenderer(t)

	r.RenderHistory(core.HistoryView{Empty: true})
	r.RenderQuickHistory([]core.HistoryItemView{{EmailPreview: "first", Result: "LOW RISK", StatusClass: core.StatusSafe}})

	doc := parse(t, r.Region(RegionHistory))
	assert.Nil(t, htmlquery.FindOne(doc, "//div[@class='history-placeholder']"))
	assert.Len(t, htmlquery.Find(doc, "//div[@class='history-item']"), 1)
}

func TestHTMLRenderer_FormState(t *testing.T) {
	r := newTestHTMLRenderer(t)

	assert.True(t, r.Visible(core.StepLoginForm))
	assert.False(t, r.Visible(core.StepMFAForm))
	r.SwitchStep(core.StepLoginForm, core.StepMFAForm)
	assert.False(t, r.Visible(core.StepLoginForm))
	assert.True(t, r.Visible(core.StepMFAForm))

	r.SetBusy(core.ControlLogin, true)
	assert.True(t, r.Busy(core.ControlLogin))
	r.SetBusy(core.ControlLogin, false)
	assert.False(t, r.Busy(core.ControlLogin))

	r.ShowMessage(core.TargetLoginError, core.MsgOTPSent, core.MessageSuccess)
	doc := parse(t, r.Region(core.TargetLoginError))
	msg := htmlquery.FindOne(doc, "//div[@class='message success']")
	require.NotNil(t, msg)
	assert.Equal(t, core.MsgOTPSent, htmlquery.InnerText(msg))

	r.ClearMessage(core.TargetLoginError)
	assert.Empty(t, r.Region(core.TargetLoginError))

	r.Alert("first")
	r.Alert("second")
	assert.Equal(t, []string{"first", "second"}, r.Alerts())
}

func TestHTMLRenderer_Checklist(t *testing.T) {
	r := newTestHTMLRenderer(t)
	r.ShowPasswordChecklist(core.EvaluatePassword("abcdefgh").Checklist())

	doc := parse(t, r.Region(RegionPasswordRequirements))
	assert.Len(t, htmlquery.Find(doc, "//div[@data-requirement]"), 5)

	met := htmlquery.Find(doc, "//div[@class='requirement met']")
	require.Len(t, met, 2)
	assert.Equal(t, "length", htmlquery.SelectAttr(met[0], "data-requirement"))
}

func TestHTMLRenderer_Document(t *testing.T) {
	r := newTestHTMLRenderer(t)
	r.ShowUser("alice")
	r.RenderHistory(core.HistoryView{Empty: true})

	out, err := r.Document("MailGuard")
	require.NoError(t, err)

	doc := parse(t, string(out))
	title := htmlquery.FindOne(doc, "//title")
	require.NotNil(t, title)
	assert.Equal(t, "MailGuard", htmlquery.InnerText(title))

	sections := htmlquery.Find(doc, "//section")
	require.Len(t, sections, 2)
	assert.Equal(t, RegionHistory, htmlquery.SelectAttr(sections[0], "id"))
	assert.Equal(t, RegionUserInfo, htmlquery.SelectAttr(sections[1], "id"))

	user := htmlquery.FindOne(doc, "//span[@class='user-info']")
	require.NotNil(t, user)
	assert.Equal(t, "👤 alice", htmlquery.InnerText(user))
}
