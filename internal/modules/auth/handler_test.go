package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tahaafzal5/zero2prod/internal/middleware"
	"github.com/tahaafzal5/zero2prod/internal/pkg/jwt"
	"github.com/tahaafzal5/zero2prod/internal/pkg/signer"
	"go.uber.org/zap"
)

var testHMACSecret = []byte("test-hmac-secret")

func newLoginRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := newTestService(t)
	r := gin.New()
	NewHandler(svc, zap.NewNop(), testHMACSecret).RegisterRoutes(r.Group(""))
	return r, svc
}

func postLogin(r *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFailedLoginRedirectsWithASignedErrorMessage(t *testing.T) {
	r, _ := newLoginRouter(t)

	w := postLogin(r, url.Values{
		"username": {"random-username"},
		"password": {"random-password"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/login", location.Path)

	q := location.Query()
	assert.Equal(t, "Authentication failed", q.Get("error"))

	fragment := "error=" + url.QueryEscape(q.Get("error"))
	assert.NoError(t, signer.Verify(fragment, q.Get("tag"), testHMACSecret))
}

func TestLoginFormDisplaysVerifiedErrorMessage(t *testing.T) {
	r, _ := newLoginRouter(t)

	msg := "Authentication failed"
	fragment := "error=" + url.QueryEscape(msg)
	tag := signer.Sign(fragment, testHMACSecret)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login?"+fragment+"&tag="+tag, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<p><i>Authentication failed</i></p>")
}

func TestLoginFormDiscardsTamperedMessage(t *testing.T) {
	r, _ := newLoginRouter(t)

	msg := "You have been pwned"
	fragment := "error=" + url.QueryEscape(msg)
	badTag := signer.Sign(fragment, []byte("attacker-secret"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login?"+fragment+"&tag="+badTag, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "pwned", "unverified content is never displayed")
	assert.Contains(t, w.Body.String(), "<form action=\"/login\"")
}

func TestLoginFormEscapesTheMessage(t *testing.T) {
	r, _ := newLoginRouter(t)

	msg := `<script>alert("xss")</script>`
	fragment := "error=" + url.QueryEscape(msg)
	tag := signer.Sign(fragment, testHMACSecret)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login?"+fragment+"&tag="+tag, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<script>")
}

func TestSuccessfulLoginRedirectsHomeWithASessionCookie(t *testing.T) {
	r, svc := newLoginRouter(t)
	u, err := svc.Register("operator", "correct-horse-battery")
	require.NoError(t, err)

	w := postLogin(r, url.Values{
		"username": {"operator"},
		"password": {"correct-horse-battery"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var session string
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			session = c.Value
		}
	}
	require.NotEmpty(t, session, "session cookie must be set")

	claims, err := jwt.Parse(session)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
}

func TestLoginAcceptsEmailFieldAsUsernameAlias(t *testing.T) {
	r, svc := newLoginRouter(t)
	_, err := svc.Register("operator@example.com", "correct-horse-battery")
	require.NoError(t, err)

	w := postLogin(r, url.Values{
		"email":    {"operator@example.com"},
		"password": {"correct-horse-battery"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}
