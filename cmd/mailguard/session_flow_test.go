package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/mikey/mailguard/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	flowPassword   = "Abcdef1!"
	flowMFACode    = "123456"
	flowCookieName = "session"
)

// flowBackend is a MailGuard server where bobby logs in with MFA and every
// other user without
type flowBackend struct {
	mu       sync.Mutex
	resent   []string
	analyzed []string
}

func (b *flowBackend) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var req core.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != flowPassword {
			flowJSON(w, http.StatusUnauthorized, map[string]interface{}{"message": "Invalid credentials"})
			return
		}
		if req.Username == "bobby" {
			flowJSON(w, http.StatusOK, map[string]interface{}{"message": "OTP sent", "mfa_required": true})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: flowCookieName, Value: req.Username, Path: "/"})
		flowJSON(w, http.StatusOK, map[string]interface{}{"message": "Login successful"})
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/verify_mfa", func(w http.ResponseWriter, r *http.Request) {
		var req core.VerifyMFARequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.MFACode != flowMFACode {
			flowJSON(w, http.StatusUnauthorized, map[string]interface{}{"message": "Invalid MFA code"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: flowCookieName, Value: req.Username, Path: "/"})
		flowJSON(w, http.StatusOK, map[string]interface{}{"message": "Login successful"})
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/resend_otp", func(w http.ResponseWriter, r *http.Request) {
		var req core.ResendOTPRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		b.resent = append(b.resent, req.Username)
		b.mu.Unlock()
		flowJSON(w, http.StatusOK, map[string]interface{}{"message": "OTP resent"})
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/user_info", func(w http.ResponseWriter, r *http.Request) {
		username, ok := flowUser(r)
		if !ok {
			flowJSON(w, http.StatusUnauthorized, map[string]interface{}{"message": "Not logged in"})
			return
		}
		flowJSON(w, http.StatusOK, map[string]interface{}{"username": username, "email": username + "@example.com"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/detect", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := flowUser(r); !ok {
			flowJSON(w, http.StatusUnauthorized, map[string]interface{}{"message": "Not logged in"})
			return
		}
		var req core.DetectRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		b.analyzed = append(b.analyzed, req.EmailText)
		b.mu.Unlock()
		flowJSON(w, http.StatusOK, map[string]interface{}{
			"result":     "⚠️ HIGH RISK - Phishing detected",
			"confidence": 90,
			"indicators": []string{"Urgent language"},
		})
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/analysis_history", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		history := make([]map[string]interface{}, 0, len(b.analyzed))
		for _, text := range b.analyzed {
			history = append(history, map[string]interface{}{"email_preview": text, "result": "HIGH RISK", "confidence": 90})
		}
		b.mu.Unlock()
		flowJSON(w, http.StatusOK, map[string]interface{}{"history": history})
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: flowCookieName, Value: "", Path: "/", MaxAge: -1})
		flowJSON(w, http.StatusOK, map[string]interface{}{"message": "Logged out"})
	}).Methods(http.MethodGet)

	return r
}

func (b *flowBackend) resends() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.resent...)
}

func flowUser(r *http.Request) (string, bool) {
	c, err := r.Cookie(flowCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func flowJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// flowCLI runs separate CLI invocations sharing one SQLite session file
type flowCLI struct {
	t       *testing.T
	config  string
	backend *flowBackend
}

func newFlowCLI(t *testing.T) *flowCLI {
	t.Helper()
	backend := &flowBackend{}
	server := httptest.NewServer(backend.router())
	t.Cleanup(server.Close)

	dir := t.TempDir()
	config := fmt.Sprintf(`api:
  base_url: %s
session:
  type: sqlite
  sqlite_path: %s
detector:
  refresh_delay: 1ms
output:
  format: terminal
  color: false
logging:
  level: error
`, server.URL, filepath.Join(dir, "session.db"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(config), 0o600))

	return &flowCLI{t: t, config: path, backend: backend}
}

func (c *flowCLI) run(args ...string) (string, error) {
	c.t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--config", c.config}, args...))
	err := cmd.Execute()
	return out.String(), err
}

type flowStep struct {
	args    []string
	code    int
	wantErr error
	output  string
}

func TestSessionFlows(t *testing.T) {
	loginAlice := flowStep{args: []string{"login", "-u", "alice", "-p", flowPassword}}
	loginBobby := flowStep{args: []string{"login", "-u", "bobby", "-p", flowPassword}, output: core.MsgOTPSent}
	verify := flowStep{args: []string{"verify", flowMFACode}}

	tests := []struct {
		name    string
		steps   []flowStep
		resends []string
	}{
		{
			name: "login then verify",
			steps: []flowStep{
				loginBobby,
				verify,
				{args: []string{"whoami"}, output: "👤 bobby"},
			},
		},
		{
			name: "MFA login after an earlier login",
			steps: []flowStep{
				loginAlice,
				{args: []string{"whoami"}, output: "👤 alice"},
				loginBobby,
				verify,
				{args: []string{"whoami"}, output: "👤 bobby"},
			},
		},
		{
			name: "MFA login drops the earlier identity until verified",
			steps: []flowStep{
				loginAlice,
				loginBobby,
				{args: []string{"whoami"}, code: exitFailure, wantErr: errLoginRequired},
			},
		},
		{
			name: "wrong code keeps the login pending",
			steps: []flowStep{
				loginBobby,
				{args: []string{"verify", "000000"}, code: exitRemote, output: "Invalid MFA code"},
				verify,
				{args: []string{"verify", flowMFACode}, code: exitFailure, wantErr: errNoPendingLogin},
			},
		},
		{
			name: "login then resend",
			steps: []flowStep{
				loginBobby,
				{args: []string{"resend"}, output: core.MsgOTPResent},
			},
			resends: []string{"bobby"},
		},
		{
			name: "resend without a pending login does nothing",
			steps: []flowStep{
				{args: []string{"resend"}},
				loginAlice,
				{args: []string{"resend"}},
			},
		},
		{
			name: "detect then logout",
			steps: []flowStep{
				loginAlice,
				{args: []string{"detect", "--text", "Verify your account now"}, output: "=== Results ==="},
				{args: []string{"logout"}, output: "Logged out"},
				{args: []string{"detect", "--text", "hello"}, code: exitFailure, wantErr: errLoginRequired},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli := newFlowCLI(t)
			for i, step := range tt.steps {
				out, err := cli.run(step.args...)
				assert.Equal(t, step.code, exitCode(err), "step %d %v: %v", i, step.args, err)
				if step.wantErr != nil {
					assert.ErrorIs(t, err, step.wantErr, "step %d %v", i, step.args)
				}
				if step.output != "" {
					assert.Contains(t, out, step.output, "step %d %v", i, step.args)
				}
			}
			assert.Equal(t, tt.resends, cli.backend.resends())
		})
	}
}
