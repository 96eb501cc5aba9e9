// Package es 提供了与 Elasticsearch 交互的客户端功能。
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"farm-assist-go/internal/config"
	"farm-assist-go/internal/model"
	"farm-assist-go/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ContentIndex 是农事内容的全文索引。
type ContentIndex interface {
	EnsureIndex(ctx context.Context) error
	IndexDocuments(ctx context.Context, docs []model.ContentDocument) error
	Search(ctx context.Context, query string, limit int) ([]model.ContentSearchResult, error)
}

type contentIndex struct {
	client    *elasticsearch.Client
	indexName string
}

// NewClient 创建 Elasticsearch 客户端。
func NewClient(esCfg config.ElasticsearchConfig) (*elasticsearch.Client, error) {
	var addresses []string
	for _, a := range strings.Split(esCfg.Addresses, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addresses = append(addresses, a)
		}
	}
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	})
}

// NewContentIndex 基于已有客户端创建内容索引。
func NewContentIndex(client *elasticsearch.Client, indexName string) ContentIndex {
	return &contentIndex{client: client, indexName: indexName}
}

const contentMapping = `{
	"mappings": {
		"properties": {
			"id":        { "type": "keyword" },
			"kind":      { "type": "keyword" },
			"recordId":  { "type": "long" },
			"title":     { "type": "text", "fields": { "raw": { "type": "keyword" } } },
			"content":   { "type": "text" },
			"category":  { "type": "text", "fields": { "raw": { "type": "keyword" } } }
		}
	}
}`

// EnsureIndex 检查索引是否存在，如果不存在则创建它
func (c *contentIndex) EnsureIndex(ctx context.Context) error {
	res, err := c.client.Indices.Exists([]string{c.indexName}, c.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("检查索引是否存在时出错: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		log.Infof("索引 '%s' 已存在", c.indexName)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("检查索引是否存在时收到意外的状态码: %d", res.StatusCode)
	}

	res, err = c.client.Indices.Create(
		c.indexName,
		c.client.Indices.Create.WithContext(ctx),
		c.client.Indices.Create.WithBody(strings.NewReader(contentMapping)),
	)
	if err != nil {
		return fmt.Errorf("创建索引 '%s' 失败: %w", c.indexName, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("创建索引时 Elasticsearch 返回错误: %s", res.String())
	}

	log.Infof("索引 '%s' 创建成功", c.indexName)
	return nil
}

// IndexDocuments 使用 bulk 接口按文档 ID 覆盖写入。
func (c *contentIndex) IndexDocuments(ctx context.Context, docs []model.ContentDocument) error {
	if len(docs) == 0 {
		return nil
	}
	var buf bytes.Buffer
	for _, doc := range docs {
		meta := map[string]map[string]string{"index": {"_index": c.indexName, "_id": doc.ID}}
		if err := json.NewEncoder(&buf).Encode(meta); err != nil {
			return err
		}
		if err := json.NewEncoder(&buf).Encode(doc); err != nil {
			return err
		}
	}

	req := esapi.BulkRequest{
		Body:    &buf,
		Refresh: "true",
	}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("bulk 请求失败: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("bulk 索引返回错误: %s", res.String())
	}

	var bulkResp struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulkResp); err != nil {
		return fmt.Errorf("解析 bulk 响应失败: %w", err)
	}
	if bulkResp.Errors {
		return errors.New("部分文档索引失败")
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Score  float64               `json:"_score"`
			Source model.ContentDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (c *contentIndex) Search(ctx context.Context, query string, limit int) ([]model.ContentSearchResult, error) {
	body := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^3", "category^2", "content"},
			},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	res, err := c.client.Search(
		c.client.Search.WithContext(ctx),
		c.client.Search.WithIndex(c.indexName),
		c.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("搜索请求失败: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("搜索返回错误: %s", res.String())
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("解析搜索响应失败: %w", err)
	}
	results := make([]model.ContentSearchResult, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		results = append(results, model.ContentSearchResult{
			Kind:     h.Source.Kind,
			RecordID: h.Source.RecordID,
			Title:    h.Source.Title,
			Content:  h.Source.Content,
			Category: h.Source.Category,
			Score:    h.Score,
		})
	}
	return results, nil
}
