package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eyecarehub/eyecare-server/auth"
	"github.com/eyecarehub/eyecare-server/internal/config"
	fakeloginrepo "github.com/eyecarehub/eyecare-server/loginhistory/repofake"
	"github.com/eyecarehub/eyecare-server/server"
	"github.com/eyecarehub/eyecare-server/token"
	"github.com/eyecarehub/eyecare-server/users"
	fakeuserrepo "github.com/eyecarehub/eyecare-server/users/repofake"
)

const (
	testIssuer   = "eye_care"
	testEmail    = "jane@example.com"
	testFrontend = "http://localhost:8080"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fakeProvider struct {
	identity *auth.Identity
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://provider.example.com/auth?state=" + url.QueryEscape(state)
}

func (p *fakeProvider) ExchangeCode(_ context.Context, _ string) (string, error) {
	return "provider-access-token", nil
}

func (p *fakeProvider) FetchIdentity(_ context.Context, _ string) (*auth.Identity, error) {
	return p.identity, nil
}

type testFixture struct {
	userRepo  *fakeuserrepo.FakeUserRepo
	loginRepo *fakeloginrepo.FakeLoginRepo
	tokens    *token.Manager
	server    *server.Server
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	cfg := &config.Config{
		AppName:         testIssuer,
		Env:             "TEST",
		FrontendHostURL: testFrontend,
		ProviderTimeout: time.Second,
	}

	ur := fakeuserrepo.NewFakeUserRepo()
	lr := fakeloginrepo.NewFakeLoginRepo()
	tm := token.New(testSecret, testIssuer)
	provider := &fakeProvider{identity: &auth.Identity{
		Email:    testEmail,
		Name:     "Jane Doe",
		GoogleID: "google-123",
	}}

	srv, err := server.New(cfg, server.Repos{
		Users:  ur,
		Logins: lr,
	}, provider, tm)
	require.NoError(t, err)

	return &testFixture{userRepo: ur, loginRepo: lr, tokens: tm, server: srv}
}

// createUser stores an account and returns it with a valid access token.
func (f *testFixture) createUser(t *testing.T, email, userType string) (*users.User, string) {
	t.Helper()

	user, err := f.userRepo.Create(context.Background(), &users.User{
		Email:      email,
		UserType:   userType,
		AuthMethod: users.AuthGoogle,
	})
	require.NoError(t, err)

	access, err := f.tokens.CreateAccessToken(auth.AccessClaims(user))
	require.NoError(t, err)
	return user, access
}

func (f *testFixture) do(t *testing.T, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func TestGoogleLoginHandler_RedirectsToProvider(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, "/login/google?whereFrom=%2Fblogs%2F7", "", "")

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	location := rec.Header().Get("Location")
	require.Contains(t, location, "https://provider.example.com/auth")
	require.Contains(t, location, "state=%2Fblogs%2F7")
}

func TestGoogleCallbackHandler_RedirectsWithTokens(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, "/login/google/callback?code=abc&state=%2Fblogs%2F7", "", "")

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, testFrontend+"/#/login?jwt="))
	require.Contains(t, location, "&refresh=")
	require.Contains(t, location, "&whereFrom=%2Fblogs%2F7")
	require.Contains(t, location, "&doit=1")

	// The account was provisioned by the callback.
	user, err := f.userRepo.GetByEmail(context.Background(), testEmail)
	require.NoError(t, err)
	require.Equal(t, users.TypeGeneral, user.UserType)
}

func TestGoogleCallbackHandler_NoStateOmitsResume(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, "/login/google/callback?code=abc", "", "")

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	location := rec.Header().Get("Location")
	require.NotContains(t, location, "whereFrom")
	require.NotContains(t, location, "doit")
}

func TestGoogleCallbackHandler_ErrorParam(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, "/login/google/callback?error=access_denied", "", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	// The upstream rejection reason is passed back to the caller.
	require.Contains(t, rec.Body.String(), "access_denied")
}

func TestGoogleCallbackHandler_MissingCode(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, "/login/google/callback", "", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Authorization code is missing")
}

func TestRefreshHandler(t *testing.T) {
	f := setupTestFixture(t)

	// Login first to obtain a stored refresh token.
	rec := f.do(t, http.MethodGet, "/login/google/callback?code=abc", "", "")
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)

	fragment := rec.Header().Get("Location")
	refresh := extractParam(t, fragment, "refresh")

	rec = f.do(t, http.MethodPost, "/refresh", `{"refresh_token":"`+refresh+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	claims, err := f.tokens.Verify(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, testEmail, claims["email"])
}

func TestRefreshHandler_InvalidToken(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, "/refresh", `{"refresh_token":"garbage"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid refresh token")
}

func TestRefreshHandler_ExpiredToken(t *testing.T) {
	f := setupTestFixture(t)
	user, _ := f.createUser(t, testEmail, users.TypeGeneral)

	expired, err := f.tokens.CreateRefreshToken(user.ID, user.Email, -time.Hour)
	require.NoError(t, err)
	require.NoError(t, f.userRepo.SetRefreshToken(context.Background(), user.ID, expired))

	rec := f.do(t, http.MethodPost, "/refresh", `{"refresh_token":"`+expired+`"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Refresh token has expired")
}

func TestRefreshHandler_MissingBody(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, "/refresh", `{}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUserHandler(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, "/users", `{"email":"new@example.com","password":"Str0ngPass"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var created users.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "new@example.com", created.Email)
	require.Equal(t, users.TypeGeneral, created.UserType)

	// Password material never leaves the server.
	require.NotContains(t, rec.Body.String(), "password")
}

func TestCreateUserHandler_WeakPassword(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, "/users", `{"email":"new@example.com","password":"short"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUserHandler_DuplicateEmail(t *testing.T) {
	f := setupTestFixture(t)
	f.createUser(t, "new@example.com", users.TypeGeneral)

	rec := f.do(t, http.MethodPost, "/users", `{"email":"new@example.com","password":"Str0ngPass"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Email already registered")
}

func TestCreateUserHandler_CannotSelfAssignAdmin(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, "/users", `{"email":"new@example.com","password":"Str0ngPass","user_type":"admin"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUserHandler_RequiresAuth(t *testing.T) {
	f := setupTestFixture(t)
	user, access := f.createUser(t, testEmail, users.TypeGeneral)

	rec := f.do(t, http.MethodGet, "/users/1", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/users/1", "", access)
	require.Equal(t, http.StatusOK, rec.Code)

	var got users.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, user.Email, got.Email)
}

func TestRequireAuth_BannedAccount(t *testing.T) {
	f := setupTestFixture(t)

	user, err := f.userRepo.Create(context.Background(), &users.User{
		Email:      testEmail,
		UserType:   users.TypeGeneral,
		AuthMethod: users.AuthGoogle,
		IsBanned:   true,
	})
	require.NoError(t, err)

	access, err := f.tokens.CreateAccessToken(auth.AccessClaims(user))
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/users/1", "", access)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteUserHandler_AdminOnly(t *testing.T) {
	f := setupTestFixture(t)
	_, userAccess := f.createUser(t, testEmail, users.TypeGeneral)
	_, adminAccess := f.createUser(t, "admin@example.com", users.TypeAdmin)

	rec := f.do(t, http.MethodDelete, "/users/1", "", userAccess)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodDelete, "/users/1", "", adminAccess)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUpdateUserRoleHandler(t *testing.T) {
	f := setupTestFixture(t)
	user, access := f.createUser(t, testEmail, users.TypeGeneral)
	other, _ := f.createUser(t, "other@example.com", users.TypeGeneral)
	_, adminAccess := f.createUser(t, "admin@example.com", users.TypeAdmin)

	// Self-service role change.
	rec := f.do(t, http.MethodPut, "/users/1/role", `{"user_type":"od"}`, access)
	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := f.userRepo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, users.TypeOD, updated.UserType)

	// Cannot change someone else's role.
	rec = f.do(t, http.MethodPut, "/users/2/role", `{"user_type":"od"}`, access)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Cannot self-assign admin.
	rec = f.do(t, http.MethodPut, "/users/1/role", `{"user_type":"admin"}`, access)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Admins can change anyone's.
	rec = f.do(t, http.MethodPut, "/users/2/role", `{"user_type":"md"}`, adminAccess)
	require.Equal(t, http.StatusOK, rec.Code)

	updated, err = f.userRepo.GetByID(context.Background(), other.ID)
	require.NoError(t, err)
	require.Equal(t, users.TypeMD, updated.UserType)
}

func TestCorsPreflight(t *testing.T) {
	f := setupTestFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/users", nil)
	req.Header.Set("Origin", testFrontend)
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, testFrontend, rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCorsPreflight_DisallowedOrigin(t *testing.T) {
	f := setupTestFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/users", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	// No allow-origin header means the browser blocks the request.
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsHeaders_CrossOriginRequest(t *testing.T) {
	f := setupTestFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"email":"new@example.com","password":"Str0ngPass"}`))
	req.Header.Set("Origin", testFrontend)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, testFrontend, rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

// extractParam pulls a query-style parameter out of the redirect fragment.
func extractParam(t *testing.T, location, name string) string {
	t.Helper()

	idx := strings.Index(location, "#/login?")
	require.GreaterOrEqual(t, idx, 0)

	values, err := url.ParseQuery(location[idx+len("#/login?"):])
	require.NoError(t, err)
	require.NotEmpty(t, values.Get(name))
	return values.Get(name)
}
