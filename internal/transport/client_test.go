package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Domenick1991/thsrbook/config"
	"github.com/Domenick1991/thsrbook/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(config.Default().Site, logger.NewNop())
	require.NoError(t, err)
	return client
}

func TestClient_GetKeepsSessionCookie(t *testing.T) {
	var sawCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/IMINT/":
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "S1", Path: "/IMINT"})
			_, _ = io.WriteString(w, "page")
		case "/IMINT/next":
			if c, err := r.Cookie("JSESSIONID"); err == nil {
				sawCookie = c.Value
			}
			_, _ = io.WriteString(w, "next")
		}
	}))
	defer srv.Close()

	client := newTestClient(t)
	ctx := context.Background()

	body, err := client.Get(ctx, srv.URL+"/IMINT/?locale=tw")
	require.NoError(t, err)
	assert.Equal(t, "page", string(body))

	session, ok := client.Cookie(srv.URL+"/IMINT/?locale=tw", "JSESSIONID")
	require.True(t, ok)
	assert.Equal(t, "S1", session)

	_, err = client.Get(ctx, srv.URL+"/IMINT/next")
	require.NoError(t, err)
	assert.Equal(t, "S1", sawCookie)

	_, ok = client.Cookie(srv.URL+"/IMINT/", "missing")
	assert.False(t, ok)
}

func TestClient_PostFormSendsHeadersAndBody(t *testing.T) {
	var got url.Values
	var userAgent, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		got = r.PostForm
		userAgent = r.Header.Get("User-Agent")
		contentType = r.Header.Get("Content-Type")
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	client := newTestClient(t)
	form := url.Values{}
	form.Set("ticketPanel:rows:0:ticketAmount", "1F")

	body, err := client.PostForm(context.Background(), srv.URL+"/submit", form)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, "1F", got.Get("ticketPanel:rows:0:ticketAmount"))
	assert.Equal(t, config.Default().Site.UserAgent, userAgent)
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(t).Get(context.Background(), srv.URL)
	assert.Error(t, err)
}
