package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/sop-console/internal/config"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	config.EnvVars
	config.Cors
	config.Session
	config.Storage
	backend     string
	credentials string
}

func (c testConfig) GetBackendURL() string            { return c.backend }
func (c testConfig) GetCredentialsFile() string       { return c.credentials }
func (c testConfig) GetCredentialsPassphrase() string { return "correct horse" }

func run(t *testing.T, cfg config.Config, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand(cfg)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	err := root.Execute()
	return out.String(), err
}

func fakeBackend(t *testing.T) *httptest.Server {
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/dangnhap", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Sai mật khẩu"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":        token,
			"refreshToken": "r1",
			"nguoiDung":    map[string]any{"userID": 7, "manv": in["manv"], "fullName": "Tran Thi Binh"},
			"quyenList":    []string{"ROLE_MANAGER"},
		})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"profile": map[string]any{"userID": 7, "manv": "V42", "fullName": "Tran Thi Binh", "email": "binh@example.com"},
			"roles":   []string{"ROLE_MANAGER"},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestVersion(t *testing.T) {
	out, err := run(t, testConfig{}, "", "version")
	require.NoError(t, err)
	require.Equal(t, BuildVersion+"\n", out)
}

func TestSessionCommands(t *testing.T) {
	cfg := testConfig{
		backend:     fakeBackend(t).URL,
		credentials: filepath.Join(t.TempDir(), "credentials"),
	}

	_, err := run(t, cfg, "", "whoami")
	require.EqualError(t, err, "not signed in")

	_, err = run(t, cfg, "", "login", "--user", "V42", "--password", "wrong")
	require.EqualError(t, err, "login failed: Sai mật khẩu")

	out, err := run(t, cfg, "secret\n", "login", "-u", "V42")
	require.NoError(t, err)
	require.Contains(t, out, "Signed in as Tran Thi Binh")

	out, err = run(t, cfg, "", "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "Tran Thi Binh (V42)")
	require.Contains(t, out, "Roles: ROLE_MANAGER")

	out, err = run(t, cfg, "", "logout")
	require.NoError(t, err)
	require.Contains(t, out, "Signed out")

	_, err = run(t, cfg, "", "whoami")
	require.EqualError(t, err, "not signed in")
}

func TestReadPassword(t *testing.T) {
	var prompt bytes.Buffer
	got, err := readPassword(strings.NewReader("hunter2\r\n"), &prompt)
	require.NoError(t, err)
	require.Equal(t, "hunter2", got)
	require.Equal(t, "Password: ", prompt.String())

	got, err = readPassword(strings.NewReader("no-newline"), &prompt)
	require.NoError(t, err)
	require.Equal(t, "no-newline", got)

	_, err = readPassword(strings.NewReader(""), &prompt)
	require.Error(t, err)
}
