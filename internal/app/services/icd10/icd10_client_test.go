package icd10

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("Positional payload is flattened into options", func(t *testing.T) {
		var gotQuery string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			fmt.Fprint(w, `[2,["E11.9","E11.65"],null,[["E11.9","Type 2 diabetes mellitus without complications"],["E11.65","Type 2 diabetes mellitus with hyperglycemia"]]]`)
		}))
		defer server.Close()

		client := &icd10Client{SearchURL: server.URL, Log: zap.NewNop()}
		options, err := client.Search(ctx, "type 2 diabetes")
		assert.NoError(t, err)
		assert.Len(t, options, 2)
		assert.Equal(t, "E11.9", options[0].Code)
		assert.Equal(t, "Type 2 diabetes mellitus without complications", options[0].Name)
		assert.Equal(t, "sf=code,name&terms=type+2+diabetes", gotQuery)
	})

	t.Run("Empty result set", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[0,[],null,[]]`)
		}))
		defer server.Close()

		client := &icd10Client{SearchURL: server.URL, Log: zap.NewNop()}
		options, err := client.Search(ctx, "xyzzy")
		assert.NoError(t, err)
		assert.Empty(t, options)
	})

	t.Run("Truncated payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[0,[]]`)
		}))
		defer server.Close()

		client := &icd10Client{SearchURL: server.URL, Log: zap.NewNop()}
		_, err := client.Search(ctx, "partial")
		assert.Error(t, err)
	})

	t.Run("Upstream failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := &icd10Client{SearchURL: server.URL, Log: zap.NewNop()}
		_, err := client.Search(ctx, "diabetes")
		assert.Error(t, err)
	})
}
