package es

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"farm-assist-go/internal/config"
	"farm-assist-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeES 模拟 Elasticsearch 的最小子集。
func fakeES(t *testing.T, handler http.HandlerFunc) ContentIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	client, err := NewClient(config.ElasticsearchConfig{Addresses: srv.URL})
	require.NoError(t, err)
	return NewContentIndex(client, "farm_content")
}

func TestEnsureIndexCreatesWhenMissing(t *testing.T) {
	var created bool
	idx := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			assert.Equal(t, "/farm_content", r.URL.Path)
			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(body), `"recordId"`)
			created = true
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})

	require.NoError(t, idx.EnsureIndex(context.Background()))
	assert.True(t, created)
}

func TestEnsureIndexExisting(t *testing.T) {
	idx := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, idx.EnsureIndex(context.Background()))
}

func TestIndexDocumentsBulk(t *testing.T) {
	var lines []string
	idx := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_bulk", r.URL.Path)
		sc := bufio.NewScanner(r.Body)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		_, _ = w.Write([]byte(`{"took":1,"errors":false,"items":[]}`))
	})

	err := idx.IndexDocuments(context.Background(), []model.ContentDocument{
		{ID: "water_tip-1", Kind: model.ContentKindWaterTip, RecordID: 1, Title: "Drip", Content: "Use drip"},
		{ID: "paddy_info-2", Kind: model.ContentKindPaddyInfo, RecordID: 2, Title: "Harvest", Content: "80-85%", Category: "Harvesting"},
	})
	require.NoError(t, err)
	require.Len(t, lines, 4)

	var meta map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &meta))
	assert.Equal(t, "farm_content", meta["index"]["_index"])
	assert.Equal(t, "water_tip-1", meta["index"]["_id"])
}

func TestIndexDocumentsReportsItemErrors(t *testing.T) {
	idx := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"took":1,"errors":true,"items":[]}`))
	})
	err := idx.IndexDocuments(context.Background(), []model.ContentDocument{{ID: "x"}})
	assert.Error(t, err)
}

func TestIndexDocumentsEmpty(t *testing.T) {
	idx := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected")
	})
	assert.NoError(t, idx.IndexDocuments(context.Background(), nil))
}

func TestSearch(t *testing.T) {
	idx := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/farm_content/_search", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mm := body["query"].(map[string]interface{})["multi_match"].(map[string]interface{})
		assert.Equal(t, "harvest", mm["query"])
		assert.EqualValues(t, 5, body["size"])
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":1},"hits":[{"_score":2.5,"_source":{"id":"paddy_info-4","kind":"paddy_info","recordId":4,"title":"Paddy Harvesting Best Practices","content":"Harvest at the right time","category":"Harvesting"}}]}}`))
	})

	results, err := idx.Search(context.Background(), "harvest", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, model.ContentSearchResult{
		Kind:     model.ContentKindPaddyInfo,
		RecordID: 4,
		Title:    "Paddy Harvesting Best Practices",
		Content:  "Harvest at the right time",
		Category: "Harvesting",
		Score:    2.5,
	}, results[0])
}

func TestSearchError(t *testing.T) {
	idx := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"parsing_exception"}}`))
	})
	_, err := idx.Search(context.Background(), "x", 5)
	assert.Error(t, err)
}
