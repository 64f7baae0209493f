package subscription

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tahaafzal5/zero2prod/internal/models"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Store, *fakeMailer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := NewStore(newTestDB(t))
	mailer := &fakeMailer{}
	svc := NewService(store, mailer, testBaseURL)

	r := gin.New()
	NewHandler(svc, zap.NewNop()).RegisterRoutes(r.Group(""))
	return r, store, mailer
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubscribeEndpointAcceptsValidForm(t *testing.T) {
	r, store, _ := newTestRouter(t)

	w := postForm(r, "/subscriptions", url.Values{
		"name":  {"Taha Afzal"},
		"email": {"tahaafzal5@hotmail.com"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var subs []models.SubscriberModel
	require.NoError(t, store.db.Find(&subs).Error)
	require.Len(t, subs, 1)
	assert.Equal(t, "Taha Afzal", subs[0].Name)
	assert.Equal(t, "tahaafzal5@hotmail.com", subs[0].Email)
	assert.Equal(t, models.StatusPendingConfirmation, subs[0].Status)
}

func TestSubscribeEndpointRejectsInvalidForm(t *testing.T) {
	r, _, mailer := newTestRouter(t)

	cases := []url.Values{
		{"name": {""}, "email": {"ursula@example.com"}},
		{"name": {"Ursula"}, "email": {"definitely-not-an-email"}},
		{"name": {"Ursula{}"}, "email": {"ursula@example.com"}},
		{},
	}
	for _, form := range cases {
		w := postForm(r, "/subscriptions", form)
		assert.Equal(t, http.StatusBadRequest, w.Code, "form %v", form)
	}
	assert.Empty(t, mailer.sent)
}

func TestConfirmEndpointWithoutTokenIsRejected(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/subscriptions/confirm", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmEndpointWithUnknownTokenIsAClientError(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/subscriptions/confirm?subscription_token=unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTheLinkInTheConfirmationEmailConfirmsTheSubscriber(t *testing.T) {
	r, store, mailer := newTestRouter(t)

	w := postForm(r, "/subscriptions", url.Values{
		"name":  {"le guin"},
		"email": {"ursula_le_guin@gmail.com"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mailer.sent, 1)

	link, err := url.Parse(mailer.sent[0].Link)
	require.NoError(t, err)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, link.Path+"?"+link.RawQuery, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var sub models.SubscriberModel
	require.NoError(t, store.db.First(&sub, "email = ?", "ursula_le_guin@gmail.com").Error)
	assert.Equal(t, models.StatusConfirmed, sub.Status)
}
