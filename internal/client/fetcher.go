package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/khabarhub/newsdesk/internal/models"
)

// HTTPFetcher fetches section pages from the newsdesk HTTP surface.
type HTTPFetcher struct {
	client  *resty.Client
	baseURL string
}

func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: baseURL,
		client: resty.New().
			SetTimeout(30 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(2 * time.Second).
			SetRetryMaxWaitTime(10 * time.Second),
	}
}

// FetchPage retrieves one page of a section feed. Pagination is an
// idempotent read, so resty's retries are safe here.
func (f *HTTPFetcher) FetchPage(ctx context.Context, section string, page, limit int) ([]models.Article, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("limit", strconv.Itoa(limit)).
		Get(f.baseURL + "/news/getnewsbysection/" + section)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch page %d of %s: %w", page, section, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for section %s", resp.StatusCode(), section)
	}

	var envelope struct {
		Success bool             `json:"success"`
		Msg     string           `json:"msg"`
		News    []models.Article `json:"news"`
	}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse section page response: %w", err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("server rejected page request: %s", envelope.Msg)
	}

	return envelope.News, nil
}
