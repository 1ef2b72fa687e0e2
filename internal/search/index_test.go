package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/football_store/internal/models"
)

type recorded struct {
	Method string
	Path   string
	Body   string
}

func fakeES(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*ProductIndex, *[]recorded) {
	t.Helper()

	var mu sync.Mutex
	var reqs []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handle(w, r)
	}))
	t.Cleanup(srv.Close)

	idx, err := NewProductIndex(Config{URL: srv.URL, Index: "products_test"})
	require.NoError(t, err)
	return idx, &reqs
}

func TestSearchReturnsHitIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	idx, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"hits":{"hits":[{"_id":"`+a.String()+`"},{"_id":"not-a-uuid"},{"_id":"`+b.String()+`"}]}}`)
	})

	ids, err := idx.Search(context.Background(), "Pred*tor", 25)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, "/products_test/_search", got.Path)

	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte(got.Body), &q))
	wc := q["query"].(map[string]any)["wildcard"].(map[string]any)["name"].(map[string]any)
	assert.Equal(t, `*pred\*tor*`, wc["value"])
	assert.Equal(t, true, wc["case_insensitive"])
	assert.EqualValues(t, 25, q["size"])
}

func TestSearchSurfacesErrorStatus(t *testing.T) {
	idx, _ := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	})

	_, err := idx.Search(context.Background(), "ball", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestIndexAndDelete(t *testing.T) {
	idx, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	p := &models.Product{
		ID:       uuid.New(),
		Name:     "Nike Chelsea Jersey",
		Price:    decimal.RequireFromString("89.99"),
		Category: models.CategoryJerseys,
		Brand:    models.BrandNike,
		InStock:  true,
	}
	require.NoError(t, idx.Index(context.Background(), p))
	require.NoError(t, idx.Delete(context.Background(), p.ID))

	require.Len(t, *reqs, 2)
	assert.Equal(t, http.MethodPut, (*reqs)[0].Method)
	assert.True(t, strings.HasSuffix((*reqs)[0].Path, "/_doc/"+p.ID.String()), (*reqs)[0].Path)
	assert.Contains(t, (*reqs)[0].Body, `"name":"Nike Chelsea Jersey"`)
	assert.Equal(t, http.MethodDelete, (*reqs)[1].Method)
}
