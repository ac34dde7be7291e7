package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signin-portal/internal/auth"
	"signin-portal/internal/auth/credentials"
	"signin-portal/internal/auth/provider"
	"signin-portal/internal/auth/resolver"
	"signin-portal/internal/session"
	"signin-portal/internal/signin"
)

const testSessionSecret = "a-very-secret-key-for-testing-!!"

type fakeCredentials struct {
	passwords  map[string]string
	authCalls  int
	registered []string
}

func (f *fakeCredentials) Authenticate(_ context.Context, email, password string) (string, error) {
	f.authCalls++
	if pw, ok := f.passwords[email]; ok && pw == password {
		return "user-" + email, nil
	}
	return "", credentials.ErrInvalidCredentials
}

func (f *fakeCredentials) Register(_ context.Context, email, password string) (string, error) {
	if _, ok := f.passwords[email]; ok {
		return "", credentials.ErrAlreadyRegistered
	}
	f.passwords[email] = password
	f.registered = append(f.registered, email)
	return "user-" + email, nil
}

type fakeProvider struct {
	lastVerifier string
}

func (p *fakeProvider) Name() string        { return "fake" }
func (p *fakeProvider) DisplayName() string { return "Fake" }

func (p *fakeProvider) AuthCodeURL(state, challenge string) string {
	return "https://idp.test/auth?" + url.Values{"state": {state}, "code_challenge": {challenge}}.Encode()
}

func (p *fakeProvider) ExchangeCode(_ context.Context, code, verifier string) (*auth.Identity, error) {
	p.lastVerifier = verifier
	return &auth.Identity{Provider: "fake", ProviderUserID: code, Email: "oauth@example.com", EmailVerified: true}, nil
}

type testEnv struct {
	router  *gin.Engine
	store   *session.RedisStore
	cookies *sessions.CookieStore
	creds   *fakeCredentials
	idp     *fakeProvider
}

func setupHandlerTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	env := &testEnv{
		store:   session.NewRedisStore(rdb),
		cookies: sessions.NewCookieStore([]byte(testSessionSecret)),
		creds:   &fakeCredentials{passwords: map[string]string{"ada@example.com": "correct-horse"}},
		idp:     &fakeProvider{},
	}

	h := NewHandler(
		provider.NewRegistry(env.idp),
		env.store,
		resolver.ResolverFunc(func(_ context.Context, id *auth.Identity) (string, error) {
			return "user-" + id.Subject(), nil
		}),
		env.creds,
		env.cookies,
		Options{CookieSecure: false},
	)

	env.router = gin.New()
	h.RegisterRoutes(env.router)
	return env
}

func (e *testEnv) do(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) postForm(path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req, cookies)
}

// liveCookies returns the last value of each cookie set by rec,
// dropping deletions.
func liveCookies(rec *httptest.ResponseRecorder) []*http.Cookie {
	byName := make(map[string]*http.Cookie)
	var order []string
	for _, c := range rec.Result().Cookies() {
		if _, seen := byName[c.Name]; !seen {
			order = append(order, c.Name)
		}
		byName[c.Name] = c
	}
	var out []*http.Cookie
	for _, name := range order {
		if c := byName[name]; c.MaxAge >= 0 {
			out = append(out, c)
		}
	}
	return out
}

// overlayCookies applies the cookies set by rec on top of base, the way
// a browser would.
func overlayCookies(base []*http.Cookie, rec *httptest.ResponseRecorder) []*http.Cookie {
	byName := make(map[string]*http.Cookie)
	var order []string
	for _, c := range append(append([]*http.Cookie{}, base...), rec.Result().Cookies()...) {
		if _, seen := byName[c.Name]; !seen {
			order = append(order, c.Name)
		}
		byName[c.Name] = c
	}
	var out []*http.Cookie
	for _, name := range order {
		if c := byName[name]; c.MaxAge >= 0 {
			out = append(out, c)
		}
	}
	return out
}

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (e *testEnv) cookieSession(t *testing.T, rec *httptest.ResponseRecorder, name string) *sessions.Session {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range liveCookies(rec) {
		req.AddCookie(c)
	}
	sess, err := e.cookies.Get(req, name)
	require.NoError(t, err)
	return sess
}

func validForm() url.Values {
	return url.Values{"email": {"ada@example.com"}, "password": {"correct-horse"}}
}

func TestSignInSuccess(t *testing.T) {
	env := setupHandlerTest(t)

	rec := env.postForm("/signin", validForm(), nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/gallery", rec.Header().Get("Location"))
	assert.Equal(t, 1, env.creds.authCalls)

	sid := cookieNamed(liveCookies(rec), session.CookieName)
	require.NotNil(t, sid)
	sess, err := env.store.Get(context.Background(), sid.Value)
	require.NoError(t, err)
	assert.Equal(t, "user-ada@example.com", sess.UserID)
	assert.Equal(t, "password", sess.Method)

	flash := env.cookieSession(t, rec, flashSessionName)
	assert.Equal(t, []interface{}{"Signed in successfully."}, flash.Flashes(flashKeySuccess))
	assert.Empty(t, flash.Flashes(flashKeyError))
}

func TestSignInRejected(t *testing.T) {
	env := setupHandlerTest(t)

	form := validForm()
	form.Set("password", "wrong-horse")
	rec := env.postForm("/signin", form, nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get("Location"))
	assert.Nil(t, cookieNamed(liveCookies(rec), session.CookieName))

	flash := env.cookieSession(t, rec, flashSessionName)
	assert.Equal(t, []interface{}{"invalid email or password"}, flash.Flashes(flashKeyError))

	form1 := env.cookieSession(t, rec, formSessionName)
	assert.Equal(t, int(signin.Failed), form1.Values[keyPhase])
	assert.Equal(t, "invalid email or password", form1.Values[keyMessage])
	assert.Equal(t, "ada@example.com", form1.Values[keyEmail])
	assert.NotContains(t, form1.Values, "password")

	page := env.do(httptest.NewRequest(http.MethodGet, "/signin", nil), liveCookies(rec))
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "invalid email or password")
	assert.Contains(t, page.Body.String(), `value="ada@example.com"`)

	again := env.do(httptest.NewRequest(http.MethodGet, "/signin", nil), overlayCookies(liveCookies(rec), page))
	require.Equal(t, http.StatusOK, again.Code)
	assert.NotContains(t, again.Body.String(), "invalid email or password")
	assert.Contains(t, again.Body.String(), `value="ada@example.com"`)
}

func TestInvalidResubmitDropsEarlierFailure(t *testing.T) {
	env := setupHandlerTest(t)

	form := validForm()
	form.Set("password", "wrong-horse")
	rejected := env.postForm("/signin", form, nil)
	formCookie := cookieNamed(liveCookies(rejected), formSessionName)
	require.NotNil(t, formCookie)

	rec := env.postForm("/signin", url.Values{"email": {"ada@example.com"}, "password": {""}}, []*http.Cookie{formCookie})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password is required")
	assert.NotContains(t, rec.Body.String(), "invalid email or password")
}

func TestSignInInvalidInputSkipsAuthentication(t *testing.T) {
	env := setupHandlerTest(t)

	rec := env.postForm("/signin", url.Values{"email": {"not-an-email"}, "password": {"correct-horse"}}, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enter a valid email address")
	assert.Zero(t, env.creds.authCalls)
}

func TestValidateField(t *testing.T) {
	env := setupHandlerTest(t)

	rec := env.postForm("/signin/validate/email", url.Values{"email": {"nope"}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="email-field"`)
	assert.Contains(t, rec.Body.String(), "Enter a valid email address")

	rec = env.postForm("/signin/validate/email", url.Values{"email": {"ada@example.com"}}, liveCookies(rec))
	assert.NotContains(t, rec.Body.String(), "field-error")

	rec = env.postForm("/signin/validate/password", url.Values{"password": {"short"}}, nil)
	assert.Contains(t, rec.Body.String(), "Password must be at least 8 characters")

	rec = env.postForm("/signin/validate/nickname", url.Values{}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleVisibility(t *testing.T) {
	env := setupHandlerTest(t)

	rec := env.postForm("/signin/visibility", url.Values{"password": {"secret-pass"}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `type="text"`)
	assert.Contains(t, rec.Body.String(), `value="secret-pass"`)

	rec = env.postForm("/signin/visibility", url.Values{"password": {"secret-pass"}}, liveCookies(rec))
	assert.Contains(t, rec.Body.String(), `type="password"`)
}

func TestAPISignIn(t *testing.T) {
	env := setupHandlerTest(t)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return env.do(req, nil)
	}

	rec := post(`{"email":"ada@example.com","password":"correct-horse"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, cookieNamed(liveCookies(rec), session.CookieName))

	rec = post(`{"email":"ada@example.com","password":"wrong-horse"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid email or password"}`, rec.Body.String())

	calls := env.creds.authCalls
	rec = post(`{"email":"bad","password":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Enter a valid email address", body.Errors["email"])
	assert.Equal(t, "Password is required", body.Errors["password"])
	assert.Equal(t, calls, env.creds.authCalls)

	rec = post(`not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOAuthLoginRedirects(t *testing.T) {
	env := setupHandlerTest(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/oauth/login/fake", nil), nil)
	require.Equal(t, http.StatusFound, rec.Code)

	cookies := liveCookies(rec)
	state := cookieNamed(cookies, stateCookieName)
	verifier := cookieNamed(cookies, pkceCookieName)
	require.NotNil(t, state)
	require.NotNil(t, verifier)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "idp.test", loc.Host)
	assert.Equal(t, state.Value, loc.Query().Get("state"))
	assert.Equal(t, pkceChallenge(verifier.Value), loc.Query().Get("code_challenge"))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/oauth/login/github", nil), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOAuthCallback(t *testing.T) {
	env := setupHandlerTest(t)

	login := env.do(httptest.NewRequest(http.MethodGet, "/oauth/login/fake", nil), nil)
	flow := liveCookies(login)
	state := cookieNamed(flow, stateCookieName).Value
	verifier := cookieNamed(flow, pkceCookieName).Value

	t.Run("invalid state", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/oauth/callback/fake?state=forged&code=abc", nil), flow)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing verifier", func(t *testing.T) {
		onlyState := []*http.Cookie{cookieNamed(flow, stateCookieName)}
		rec := env.do(httptest.NewRequest(http.MethodGet, "/oauth/callback/fake?state="+state+"&code=abc", nil), onlyState)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing pkce verifier")
	})

	t.Run("provider error", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/oauth/callback/fake?state="+state+"&error=access_denied", nil), flow)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/signin", rec.Header().Get("Location"))
	})

	t.Run("success", func(t *testing.T) {
		rec := env.do(httptest.NewRequest(http.MethodGet, "/oauth/callback/fake?state="+state+"&code=sub-1", nil), flow)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/gallery", rec.Header().Get("Location"))
		assert.Equal(t, verifier, env.idp.lastVerifier)

		sid := cookieNamed(liveCookies(rec), session.CookieName)
		require.NotNil(t, sid)
		sess, err := env.store.Get(context.Background(), sid.Value)
		require.NoError(t, err)
		assert.Equal(t, "user-fake:sub-1", sess.UserID)
		assert.Equal(t, "fake", sess.Method)
	})
}

func TestLogout(t *testing.T) {
	env := setupHandlerTest(t)

	signedIn := liveCookies(env.postForm("/signin", validForm(), nil))
	sid := cookieNamed(signedIn, session.CookieName)
	require.NotNil(t, sid)

	rec := env.do(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), signedIn)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := env.store.Get(context.Background(), sid.Value)
	assert.ErrorIs(t, err, session.ErrNotFound)

	rec = env.postForm("/auth/logout", url.Values{}, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get("Location"))
}

func TestSignUp(t *testing.T) {
	env := setupHandlerTest(t)

	rec := env.postForm("/signup", url.Values{"email": {"grace@example.com"}, "password": {"hopper-1906"}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/gallery", rec.Header().Get("Location"))
	assert.Equal(t, []string{"grace@example.com"}, env.creds.registered)
	assert.NotNil(t, cookieNamed(liveCookies(rec), session.CookieName))

	rec = env.postForm("/signup", validForm(), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "an account with this email already exists")

	rec = env.postForm("/signup", url.Values{"email": {"x"}, "password": {"y"}}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
