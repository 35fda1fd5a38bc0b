package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {

	t.Run("query and headers", func(t *testing.T) {
		svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "1", r.URL.Query().Get("keep"))
			assert.Equal(t, "b c", r.URL.Query().Get("a"))
			assert.Equal(t, "Bearer x", r.Header.Get("Authorization"))
			assert.NotEmpty(t, r.Header.Get("User-Agent"))
			fmt.Fprint(w, `{"ok":true}`)
		}))
		defer svr.Close()

		client := New(time.Second, "")
		body, err := client.Get(context.Background(), svr.URL+"/path?keep=1",
			map[string]string{"a": "b c"}, map[string]string{"Authorization": "Bearer x"})
		require.NoError(t, err)
		assert.Equal(t, `{"ok":true}`, string(body))
	})

	t.Run("non-2xx status", func(t *testing.T) {
		long := strings.Repeat("x", 500)
		svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, long)
		}))
		defer svr.Close()

		body, err := New(time.Second, "").Get(context.Background(), svr.URL, nil, nil)
		require.Error(t, err)
		respErr, ok := err.(*ResponseError)
		require.True(t, ok, "expecting *ResponseError, got %T", err)
		assert.Equal(t, http.StatusUnauthorized, respErr.StatusCode)
		assert.Equal(t, long, string(body))
		assert.Len(t, respErr.Error(), len("HTTP 401 Unauthorized, body ")+maxErrorBody)
	})

	t.Run("short error body", func(t *testing.T) {
		err := &ResponseError{StatusCode: 500, Status: "500 Internal Server Error", Body: []byte("oops")}
		assert.Equal(t, "HTTP 500 Internal Server Error, body oops", err.Error())
	})

	t.Run("timeout", func(t *testing.T) {
		svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer svr.Close()

		_, err := New(20*time.Millisecond, "").Get(context.Background(), svr.URL, nil, nil)
		assert.Error(t, err)
	})

	t.Run("bad proxy falls back", func(t *testing.T) {
		client := New(time.Second, "://bad")
		assert.Nil(t, client.StdClient.Transport)
	})
}
