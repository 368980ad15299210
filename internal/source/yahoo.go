package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cognivest/cognivest/internal/model"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooNewsFetcher is the secondary news source: the Yahoo Finance
// search feed, which returns title/publisher/link triples for a ticker.
type YahooNewsFetcher struct {
	client    *http.Client
	baseURL   string
	userAgent string
	limit     int
}

func NewYahooNewsFetcher(client *http.Client, baseURL, userAgent string, limit int) *YahooNewsFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = defaultYahooBaseURL
	}
	if limit <= 0 {
		limit = 5
	}
	return &YahooNewsFetcher{client: client, baseURL: baseURL, userAgent: userAgent, limit: limit}
}

func (f *YahooNewsFetcher) Name() string {
	return "yahoo_news"
}

type yahooSearchResponse struct {
	News []model.NewsItem `json:"news"`
}

func (f *YahooNewsFetcher) Fetch(ctx context.Context, ticker string) ([]model.Document, error) {
	query := url.Values{}
	query.Set("q", ticker)
	query.Set("newsCount", strconv.Itoa(f.limit))

	var resp yahooSearchResponse
	err := getJSON(ctx, f.client, f.baseURL+"/v1/finance/search?"+query.Encode(), f.userAgent, func(body []byte) error {
		return json.Unmarshal(body, &resp)
	})
	if err != nil {
		return nil, err
	}
	items := resp.News
	if len(items) > f.limit {
		items = items[:f.limit]
	}
	docs := make([]model.Document, 0, len(items))
	for _, item := range items {
		docs = append(docs, model.Document{
			Content: fmt.Sprintf("Title: %s\nPublisher: %s\n", item.Title, item.Publisher),
			Source:  item.Publisher,
			Link:    item.Link,
			Ticker:  ticker,
		})
	}
	return docs, nil
}
