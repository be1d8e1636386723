package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shortly/shortly-api/internal/api/domain"
	apihttp "github.com/shortly/shortly-api/internal/api/http"
	"github.com/shortly/shortly-api/internal/api/service"
	"github.com/shortly/shortly-api/internal/api/store/drivers/sqlite"
	"github.com/shortly/shortly-api/pkg/cryptox"
	"github.com/shortly/shortly-api/pkg/jwtx"
	"github.com/shortly/shortly-api/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "0123456789abcdef0123456789abcdef"
	testIssuer = "shortly-api-test"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "http-test")
	if err != nil {
		os.Exit(1)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper.key"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type testEnv struct {
	server *httptest.Server
	auth   *service.AuthService
	users  *service.UserService
	signer jwtx.Signer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewSignerHS256([]byte(testSecret))
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256([]byte(testSecret), testIssuer)

	users := &service.UserService{Store: st}
	auth := &service.AuthService{
		Users:     users,
		Signer:    signer,
		Issuer:    testIssuer,
		AccessTTL: time.Hour,
	}

	logger := slogx.New(slogx.Config{Service: "shortly-api", Env: "test", Level: "error"})
	router := apihttp.NewRouter(verifier, "test", st, logger)
	router.AuthService = auth
	router.UserService = users
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, auth: auth, users: users, signer: signer}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, raw
}

func (e *testEnv) register(t *testing.T, name, email, password string) apihttp.UserResponse {
	t.Helper()

	resp, raw := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)

	var user apihttp.UserResponse
	require.NoError(t, json.Unmarshal(raw, &user))
	return user
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()

	resp, raw := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", raw)

	var tok apihttp.TokenResponse
	require.NoError(t, json.Unmarshal(raw, &tok))
	require.NotEmpty(t, tok.AccessToken)
	return tok.AccessToken
}

func TestRegisterLoginProfileFlow(t *testing.T) {
	env := newTestEnv(t)

	user := env.register(t, "A", "a@x.com", "Str0ng!Pass")
	require.NotEmpty(t, user.ID)
	require.Equal(t, []string{"USER"}, user.Roles)

	token := env.login(t, "a@x.com", "Str0ng!Pass")

	resp, raw := env.do(t, http.MethodGet, "/user/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile map[string]any
	require.NoError(t, json.Unmarshal(raw, &profile))
	require.Equal(t, "A", profile["name"])
	require.Equal(t, "a@x.com", profile["email"])
	require.Equal(t, []any{"USER"}, profile["roles"])

	// No password-shaped key may ever appear in a response body.
	lower := strings.ToLower(string(raw))
	require.NotContains(t, lower, "password")
	require.NotContains(t, lower, "hash")
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"weak password", map[string]string{"name": "A", "email": "a@x.com", "password": "weak"}},
		{"no special char", map[string]string{"name": "A", "email": "a@x.com", "password": "NoSpecial1"}},
		{"bad email", map[string]string{"name": "A", "email": "not-an-email", "password": "Str0ng!Pass"}},
		{"missing name", map[string]string{"email": "a@x.com", "password": "Str0ng!Pass"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := env.do(t, http.MethodPost, "/auth/register", "", tc.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode, "body: %s", raw)

			var envlp map[string]any
			require.NoError(t, json.Unmarshal(raw, &envlp))
			require.EqualValues(t, http.StatusBadRequest, envlp["statusCode"])
			require.Equal(t, "/auth/register", envlp["path"])
			require.NotEmpty(t, envlp["timestamp"])
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "First", "dup@x.com", "Str0ng!Pass")

	resp, raw := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Second", "email": "dup@x.com", "password": "Str0ng!Pass",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode, "body: %s", raw)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "A", "a@x.com", "Str0ng!Pass")

	respUnknown, rawUnknown := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "nobody@x.com", "password": "Str0ng!Pass",
	})
	respWrong, rawWrong := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "Wr0ng!Pass",
	})

	require.Equal(t, http.StatusUnauthorized, respUnknown.StatusCode)
	require.Equal(t, http.StatusUnauthorized, respWrong.StatusCode)

	// Same message for both, so responses cannot be used to enumerate emails.
	var a, b map[string]any
	require.NoError(t, json.Unmarshal(rawUnknown, &a))
	require.NoError(t, json.Unmarshal(rawWrong, &b))
	require.Equal(t, a["message"], b["message"])
}

func TestProfileRequiresValidToken(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "A", "a@x.com", "Str0ng!Pass")

	t.Run("missing token", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodGet, "/user/profile", "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodGet, "/user/profile", "not.a.token", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("forged token", func(t *testing.T) {
		forger, err := jwtx.NewSignerHS256([]byte("wrong-secret-wrong-secret-wrong!"))
		require.NoError(t, err)
		claims := jwtx.NewAccessClaims("someone", "a@x.com", []string{"USER"}, time.Hour, testIssuer, time.Now())
		forged, err := forger.Sign(claims)
		require.NoError(t, err)

		resp, _ := env.do(t, http.MethodGet, "/user/profile", forged, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := jwtx.NewAccessClaims("someone", "a@x.com", []string{"USER"}, time.Hour, testIssuer, time.Now().Add(-2*time.Hour))
		expired, err := env.signer.Sign(claims)
		require.NoError(t, err)

		resp, _ := env.do(t, http.MethodGet, "/user/profile", expired, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token for deleted subject", func(t *testing.T) {
		claims := jwtx.NewAccessClaims("01JGONEGONEGONEGONEGONEGON", "ghost@x.com", []string{"USER"}, time.Hour, testIssuer, time.Now())
		orphan, err := env.signer.Sign(claims)
		require.NoError(t, err)

		resp, _ := env.do(t, http.MethodGet, "/user/profile", orphan, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestUserLookupRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	regular := env.register(t, "Plain", "plain@x.com", "Str0ng!Pass")
	regularToken := env.login(t, "plain@x.com", "Str0ng!Pass")

	_, err := env.users.Create(ctx, service.CreateUserInput{
		Name:     "Admin",
		Email:    "admin@x.com",
		Password: "Str0ng!Pass",
		Roles:    []domain.Role{domain.RoleUser, domain.RoleAdmin},
	})
	require.NoError(t, err)
	adminToken := env.login(t, "admin@x.com", "Str0ng!Pass")

	t.Run("non-admin gets 403", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodGet, "/user/"+regular.ID, regularToken, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin gets 200 without hash", func(t *testing.T) {
		resp, raw := env.do(t, http.MethodGet, "/user/"+regular.ID, adminToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got apihttp.UserResponse
		require.NoError(t, json.Unmarshal(raw, &got))
		require.Equal(t, regular.ID, got.ID)
		require.NotContains(t, strings.ToLower(string(raw)), "password")
	})

	t.Run("admin lookup of missing id gets 404", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodGet, "/user/01JMISSINGMISSINGMISSINGMI", adminToken, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unauthenticated gets 401", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodGet, "/user/"+regular.ID, "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Equal(t, "ok", body["status"])
}
