package utils

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_GetJSON(t *testing.T) {
	t.Run("sends headers and decodes body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "abc", r.Header.Get("X-Api-Key"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"ok"}`))
		}))
		defer srv.Close()

		var out struct{ Name string }
		err := NewHTTPClient(time.Second).GetJSON(context.Background(), srv.URL, map[string]string{"X-Api-Key": "abc"}, &out)

		require.NoError(t, err)
		assert.Equal(t, "ok", out.Name)
	})

	t.Run("decodes gzip body", func(t *testing.T) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write([]byte(`{"name":"zipped"}`))
		require.NoError(t, zw.Close())

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write(buf.Bytes())
		}))
		defer srv.Close()

		var out struct{ Name string }
		require.NoError(t, NewHTTPClient(time.Second).GetJSON(context.Background(), srv.URL, nil, &out))
		assert.Equal(t, "zipped", out.Name)
	})

	t.Run("returns status error on non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		var out struct{}
		err := NewHTTPClient(time.Second).GetJSON(context.Background(), srv.URL, nil, &out)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
		assert.True(t, statusErr.Unauthorized())
	})

	t.Run("wraps malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		}))
		defer srv.Close()

		var out struct{}
		err := NewHTTPClient(time.Second).GetJSON(context.Background(), srv.URL, nil, &out)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "解析JSON失败")
	})
}
