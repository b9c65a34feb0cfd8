package core

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

// MockAPIClient is a mock implementation of APIClient using testify/mock.
type MockAPIClient struct {
	mock.Mock
}

func (m *MockAPIClient) Signup(ctx context.Context, req SignupRequest) (*MessageResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*MessageResponse)
	return resp, args.Error(1)
}

func (m *MockAPIClient) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*LoginResponse)
	return resp, args.Error(1)
}

func (m *MockAPIClient) VerifyMFA(ctx context.Context, req VerifyMFARequest) (*MessageResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*MessageResponse)
	return resp, args.Error(1)
}

func (m *MockAPIClient) ResendOTP(ctx context.Context, req ResendOTPRequest) (*MessageResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*MessageResponse)
	return resp, args.Error(1)
}

func (m *MockAPIClient) Detect(ctx context.Context, req DetectRequest) (*AnalysisResult, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*AnalysisResult)
	return resp, args.Error(1)
}

func (m *MockAPIClient) UserInfo(ctx context.Context) (*UserInfo, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*UserInfo)
	return resp, args.Error(1)
}

func (m *MockAPIClient) AnalysisHistory(ctx context.Context) ([]HistoryEntry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]HistoryEntry)
	return entries, args.Error(1)
}

func (m *MockAPIClient) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// fakeStore is a map-backed SessionStore.
type fakeStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string]string)}
}

func (s *fakeStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (s *fakeStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *fakeStore) Clear(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// fakeNavigator records redirects.
type fakeNavigator struct {
	path      string
	redirects []string
}

func (n *fakeNavigator) RedirectTo(ctx context.Context, path string) error {
	n.path = path
	n.redirects = append(n.redirects, path)
	return nil
}

func (n *fakeNavigator) CurrentPath(ctx context.Context) string {
	if n.path == "" {
		return PageHome
	}
	return n.path
}

type shownMessage struct {
	Target string
	Text   string
	Kind   MessageKind
}

type busyChange struct {
	Control string
	Busy    bool
}

// recordingView captures every call made to the View.
type recordingView struct {
	messages     map[string]shownMessage
	alerts       []string
	steps        [][2]string
	busy         []busyChange
	checklists   [][]ChecklistItem
	users        []string
	results      []ResultView
	quick        [][]HistoryItemView
	histories    []HistoryView
	clearedCount int
}

func newRecordingView() *recordingView {
	return &recordingView{messages: make(map[string]shownMessage)}
}

func (v *recordingView) ShowMessage(target, message string, kind MessageKind) {
	v.messages[target] = shownMessage{Target: target, Text: message, Kind: kind}
}

func (v *recordingView) ClearMessage(target string) {
	delete(v.messages, target)
	v.clearedCount++
}

func (v *recordingView) Alert(message string) {
	v.alerts = append(v.alerts, message)
}

func (v *recordingView) SwitchStep(hide, show string) {
	v.steps = append(v.steps, [2]string{hide, show})
}

func (v *recordingView) SetBusy(control string, busy bool) {
	v.busy = append(v.busy, busyChange{Control: control, Busy: busy})
}

func (v *recordingView) ShowPasswordChecklist(items []ChecklistItem) {
	v.checklists = append(v.checklists, items)
}

func (v *recordingView) ShowUser(username string) {
	v.users = append(v.users, username)
}

func (v *recordingView) RenderResult(view ResultView) {
	v.results = append(v.results, view)
}

func (v *recordingView) RenderQuickHistory(items []HistoryItemView) {
	v.quick = append(v.quick, items)
}

func (v *recordingView) RenderHistory(view HistoryView) {
	v.histories = append(v.histories, view)
}

// fixedPreviewer mimics the history preview: first n runes plus "...".
type fixedPreviewer struct{}

func (fixedPreviewer) Preview(text string, length int) string {
	r := []rune(text)
	if len(r) > length {
		r = r[:length]
	}
	return string(r) + "..."
}
