package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
)

type recorded struct {
	Method string
	Path   string
	Body   string
}

type fakeES struct {
	mu       sync.Mutex
	requests []recorded
	handler  func(w http.ResponseWriter, r *http.Request)
}

func newFakeES(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*fakeES, *elasticsearch.Client) {
	t.Helper()
	f := &fakeES{handler: handler}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recorded{Method: r.Method, Path: r.URL.Path, Body: string(b)})
		f.mu.Unlock()
		// the client refuses to talk to servers that do not identify as Elasticsearch
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		f.handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return f, es
}

func (f *fakeES) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func TestPostIndex_Index(t *testing.T) {
	f, es := newFakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})
	idx := NewPostIndex(es, "posts")

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	err := idx.Index(context.Background(), &entity.Post{ID: "p-1", Title: "Gophers", Summary: "S", Content: "C", AuthorID: "u-1", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)

	req := f.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/posts/_doc/p-1", req.Path)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.Body), &doc))
	assert.Equal(t, "Gophers", doc["title"])
	assert.Equal(t, "u-1", doc["author_id"])
}

func TestPostIndex_Search(t *testing.T) {
	f, es := newFakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"p-2"},{"_id":"p-1"}]}}`))
	})
	idx := NewPostIndex(es, "posts")

	ids, err := idx.Search(context.Background(), "gopher", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"p-2", "p-1"}, ids)

	req := f.last()
	assert.Equal(t, "/posts/_search", req.Path)
	assert.Contains(t, req.Body, `"multi_match"`)
	assert.Contains(t, req.Body, `"size":5`)
}

func TestPostIndex_RemoveIgnoresMissing(t *testing.T) {
	_, es := newFakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})
	idx := NewPostIndex(es, "posts")

	assert.NoError(t, idx.Remove(context.Background(), "p-404"))
}

func TestPostIndex_ErrorStatus(t *testing.T) {
	_, es := newFakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad"}`))
	})
	idx := NewPostIndex(es, "posts")

	_, err := idx.Search(context.Background(), "gopher", 5)
	assert.Error(t, err)
}
