package rdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	v1 "github.com/djcass44/rdb-diff/pkg/api/v1"
	"github.com/djcass44/rdb-diff/pkg/compare"
	"github.com/djcass44/rdb-diff/pkg/downloader"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// interface guard
var _ compare.Source = &Client{}

const testPackages = `{
	"request_args": {"arch": null},
	"length": 2,
	"packages": [
		{"name": "bash", "epoch": 0, "version": "5.2.26", "release": "alt1", "arch": "x86_64", "disttag": "sisyphus+1", "buildtime": 1707393637, "source": "bash5"},
		{"name": "bash", "epoch": 0, "version": "5.2.26", "release": "alt1", "arch": "aarch64", "disttag": "sisyphus+1", "buildtime": 1707393637, "source": "bash5"}
	]
}`

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	var count atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count.Add(1)
		t.Logf("received request: %s", r.URL.String())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts, &count
}

func TestClient_BranchPackages(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	var path, query string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		query = r.URL.Query().Get("arch")
		_, _ = w.Write([]byte(testPackages))
	}))
	defer ts.Close()

	client := NewClient(ctx, Options{BaseURL: ts.URL + "/api/"})

	t.Run("all arches", func(t *testing.T) {
		out, err := client.BranchPackages(ctx, "sisyphus", "")
		require.NoError(t, err)

		assert.EqualValues(t, "/api/export/branch_binary_packages/sisyphus", path)
		assert.Empty(t, query)
		assert.EqualValues(t, 2, out.Length)
		require.Len(t, out.Packages, 2)
		assert.EqualValues(t, "bash", out.Packages[0].Name)
		assert.EqualValues(t, "5.2.26", out.Packages[0].Version)
		assert.EqualValues(t, "aarch64", out.Packages[1].Arch)
	})
	t.Run("single arch", func(t *testing.T) {
		_, err := client.BranchPackages(ctx, "p10", "x86_64")
		require.NoError(t, err)

		assert.EqualValues(t, "/api/export/branch_binary_packages/p10", path)
		assert.EqualValues(t, "x86_64", query)
	})
}

func TestClient_BranchPackagesCache(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	cache, err := downloader.NewCache(t.TempDir(), time.Hour)
	require.NoError(t, err)

	t.Run("successful responses are cached", func(t *testing.T) {
		ts, count := newTestServer(t, http.StatusOK, testPackages)
		client := NewClient(ctx, Options{BaseURL: ts.URL, Cache: cache})

		for i := 0; i < 3; i++ {
			out, err := client.BranchPackages(ctx, "sisyphus", "")
			require.NoError(t, err)
			assert.Len(t, out.Packages, 2)
		}
		assert.EqualValues(t, 1, count.Load())

		// a different arch is a different request
		_, err := client.BranchPackages(ctx, "sisyphus", "x86_64")
		require.NoError(t, err)
		assert.EqualValues(t, 2, count.Load())
	})
	t.Run("errors are not cached", func(t *testing.T) {
		ts, count := newTestServer(t, http.StatusBadRequest, `{"message": "bad request"}`)
		client := NewClient(ctx, Options{BaseURL: ts.URL, Cache: cache})

		for i := 0; i < 2; i++ {
			_, err := client.BranchPackages(ctx, "sisyphus", "")
			assert.Error(t, err)
		}
		assert.EqualValues(t, 2, count.Load())
	})
	t.Run("invalid json is not cached", func(t *testing.T) {
		ts, count := newTestServer(t, http.StatusOK, `<html></html>`)
		client := NewClient(ctx, Options{BaseURL: ts.URL, Cache: cache})

		for i := 0; i < 2; i++ {
			_, err := client.BranchPackages(ctx, "sisyphus", "")
			assert.EqualValues(t, v1.ErrorKindTransport, v1.KindOf(err))
		}
		assert.EqualValues(t, 2, count.Load())
	})
}

func TestClient_BranchPackagesErrors(t *testing.T) {
	ctx := logr.NewContext(context.TODO(), testr.NewWithOptions(t, testr.Options{Verbosity: 10}))

	t.Run("unknown branch", func(t *testing.T) {
		ts, _ := newTestServer(t, http.StatusBadRequest, `{
			"message": "Request parameters validation error",
			"validation_message": [
				"unknown package set name : foo",
				"allowed package set names are : ['sisyphus', 'p10', 'p9', 'sisyphus_e2k']"
			]
		}`)
		client := NewClient(ctx, Options{BaseURL: ts.URL})

		_, err := client.BranchPackages(ctx, "foo", "")
		var ube *UnknownBranchError
		require.True(t, errors.As(err, &ube))
		assert.EqualValues(t, "foo", ube.Branch)
		assert.EqualValues(t, []string{"sisyphus", "p10", "p9", "sisyphus_e2k"}, ube.Available)
		assert.EqualValues(t, v1.ErrorKindUnknownBranch, v1.KindOf(err))
		assert.EqualError(t, err, "branch 'foo' is unknown, allowed branches: sisyphus, p10, p9, sisyphus_e2k")
	})
	t.Run("invalid architecture", func(t *testing.T) {
		ts, _ := newTestServer(t, http.StatusBadRequest, `{
			"message": "Input payload validation failed",
			"errors": {"arch": "package architecture Invalid architecture name: riscv64"}
		}`)
		client := NewClient(ctx, Options{BaseURL: ts.URL})

		_, err := client.BranchPackages(ctx, "p10", "riscv64")
		var aue *ArchitectureUnavailableError
		require.True(t, errors.As(err, &aue))
		assert.EqualValues(t, "riscv64", aue.Arch)
		assert.EqualValues(t, "p10", aue.Branch)
		assert.EqualValues(t, v1.ErrorKindArchitectureUnavailable, v1.KindOf(err))
	})
	t.Run("other client errors", func(t *testing.T) {
		ts, _ := newTestServer(t, http.StatusNotFound, `{"message": "not found"}`)
		client := NewClient(ctx, Options{BaseURL: ts.URL})

		_, err := client.BranchPackages(ctx, "p10", "")
		var te *TransportError
		require.True(t, errors.As(err, &te))
		assert.EqualValues(t, http.StatusNotFound, te.StatusCode)
		assert.EqualValues(t, "not found", te.Message)
	})
	t.Run("client error without json", func(t *testing.T) {
		ts, _ := newTestServer(t, http.StatusBadRequest, `nope`)
		client := NewClient(ctx, Options{BaseURL: ts.URL})

		_, err := client.BranchPackages(ctx, "p10", "")
		assert.EqualValues(t, v1.ErrorKindTransport, v1.KindOf(err))
	})
	t.Run("server errors", func(t *testing.T) {
		ts, count := newTestServer(t, http.StatusInternalServerError, `{}`)
		client := NewClient(ctx, Options{BaseURL: ts.URL, Retries: 1})

		_, err := client.BranchPackages(ctx, "p10", "")
		assert.EqualValues(t, v1.ErrorKindTransport, v1.KindOf(err))
		// the request is retried once
		assert.EqualValues(t, 2, count.Load())

		var te *TransportError
		require.True(t, errors.As(err, &te))
		assert.EqualValues(t, http.StatusInternalServerError, te.StatusCode)
		assert.EqualValues(t, http.StatusText(http.StatusInternalServerError), te.Message)
	})
	t.Run("unreachable server", func(t *testing.T) {
		ts, _ := newTestServer(t, http.StatusOK, testPackages)
		ts.Close()
		client := NewClient(ctx, Options{BaseURL: ts.URL})

		_, err := client.BranchPackages(ctx, "p10", "")
		assert.EqualValues(t, v1.ErrorKindTransport, v1.KindOf(err))
	})
}

func TestTransportError_Error(t *testing.T) {
	var cases = []struct {
		name string
		err  *TransportError
		out  string
	}{
		{
			"status only",
			&TransportError{URL: "http://example.org", StatusCode: 502},
			"request to http://example.org failed with code 502",
		},
		{
			"status and message",
			&TransportError{URL: "http://example.org", StatusCode: 404, Message: "not found"},
			"request to http://example.org failed with code 404: not found",
		},
		{
			"wrapped error",
			&TransportError{URL: "http://example.org", Err: errors.New("connection refused")},
			"request to http://example.org failed: connection refused",
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualValues(t, tt.out, tt.err.Error())
		})
	}
}
