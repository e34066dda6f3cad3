package http_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	galleriahttp "github.com/sagarc03/galleria/http"
)

func flashCookieFrom(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie+"_flash" {
			return c
		}
	}
	return nil
}

func flashFrom(t *testing.T, rec *httptest.ResponseRecorder) []galleriahttp.Notice {
	t.Helper()

	c := flashCookieFrom(rec)
	require.NotNil(t, c, "flash cookie not set")

	data, err := base64.RawURLEncoding.DecodeString(c.Value)
	require.NoError(t, err)

	var notices []galleriahttp.Notice
	require.NoError(t, json.Unmarshal(data, &notices))
	return notices
}

func TestFlash_ShownOnceOnNextGalleryRender(t *testing.T) {
	router, service, codec := newTestHandler(t)
	session := sessionCookie(t, codec)

	service.On("ListPage", mock.Anything, "").Return(gridPage(uuid.New().String()), nil)

	req := postForm("/delete", url.Values{})
	req.AddCookie(session)
	rec := serve(router, req)
	flash := flashCookieFrom(rec)
	require.NotNil(t, flash)

	req = httptest.NewRequest("GET", "/main", nil)
	req.AddCookie(session)
	req.AddCookie(flash)
	rec = serve(router, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No images selected for deletion.")

	cleared := flashCookieFrom(rec)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestFlash_AccumulatesPendingNotices(t *testing.T) {
	router, _, codec := newTestHandler(t)
	session := sessionCookie(t, codec)

	req := postForm("/delete", url.Values{})
	req.AddCookie(session)
	first := flashCookieFrom(serve(router, req))
	require.NotNil(t, first)

	req = postForm("/delete", url.Values{})
	req.AddCookie(session)
	req.AddCookie(first)
	rec := serve(router, req)

	assert.Len(t, flashFrom(t, rec), 2)
}

func TestFlash_CorruptCookieIgnored(t *testing.T) {
	router, service, codec := newTestHandler(t)

	service.On("ListPage", mock.Anything, "").Return(gridPage(), nil)

	req := httptest.NewRequest("GET", "/main", nil)
	req.AddCookie(sessionCookie(t, codec))
	req.AddCookie(&http.Cookie{Name: testCookie + "_flash", Value: "%%%not-base64"})
	rec := serve(router, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, flashCookieFrom(rec))
}
