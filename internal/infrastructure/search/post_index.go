package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// PostIndex keeps an Elasticsearch index of posts for full-text search.
type PostIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewPostIndex(es *elasticsearch.Client, index string) *PostIndex {
	return &PostIndex{es: es, index: index}
}

type postDoc struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Content   string `json:"content"`
	AuthorID  string `json:"author_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (i *PostIndex) Index(ctx context.Context, p *entity.Post) error {
	b, err := json.Marshal(postDoc{
		ID:        p.ID,
		Title:     p.Title,
		Summary:   p.Summary,
		Content:   p.Content,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: i.index, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}
	return i.do(ctx, req, nil, false)
}

// Remove deletes the post document. A missing document is not an error.
func (i *PostIndex) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: i.index, DocumentID: id}
	return i.do(ctx, req, nil, true)
}

// Search runs a multi_match over title, summary and content and returns ids by score.
func (i *PostIndex) Search(ctx context.Context, q string, size int) ([]string, error) {
	query := map[string]any{
		"size":    size,
		"_source": false,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^3", "summary^2", "content"},
			},
		},
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	req := esapi.SearchRequest{Index: []string{i.index}, Body: bytes.NewReader(b)}

	var out struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := i.do(ctx, req, &out, false); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

func (i *PostIndex) do(ctx context.Context, req esapi.Request, out any, allowNotFound bool) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, i.es)
	if err != nil {
		return fmt.Errorf("elasticsearch request: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if allowNotFound && res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return fmt.Errorf("elasticsearch: %s", res.Status())
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("decode elasticsearch response: %w", err)
		}
	}
	return nil
}
