package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/cognivest/cognivest/internal/model"
)

const defaultAlphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantageClient wraps the two Alpha Vantage query functions the
// system uses: the sentiment-tagged news feed and the daily price series.
type AlphaVantageClient struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

func NewAlphaVantageClient(client *http.Client, apiKey, baseURL string) *AlphaVantageClient {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = defaultAlphaVantageBaseURL
	}
	return &AlphaVantageClient{client: client, apiKey: apiKey, baseURL: baseURL}
}

type avNewsResponse struct {
	Feed []struct {
		Title                 string      `json:"title"`
		Summary               string      `json:"summary"`
		OverallSentimentScore json.Number `json:"overall_sentiment_score"`
		Source                string      `json:"source"`
		URL                   string      `json:"url"`
	} `json:"feed"`
}

func (c *AlphaVantageClient) NewsSentiment(ctx context.Context, ticker string) ([]model.SentimentNewsItem, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("alpha vantage api key is not configured")
	}
	query := url.Values{}
	query.Set("function", "NEWS_SENTIMENT")
	query.Set("tickers", ticker)
	query.Set("apikey", c.apiKey)

	var resp avNewsResponse
	err := getJSON(ctx, c.client, c.baseURL+"/query?"+query.Encode(), "", func(body []byte) error {
		return json.Unmarshal(body, &resp)
	})
	if err != nil {
		return nil, err
	}
	items := make([]model.SentimentNewsItem, 0, len(resp.Feed))
	for _, entry := range resp.Feed {
		score, _ := entry.OverallSentimentScore.Float64()
		items = append(items, model.SentimentNewsItem{
			Title:     entry.Title,
			Summary:   entry.Summary,
			Sentiment: score,
			Source:    entry.Source,
			URL:       entry.URL,
		})
	}
	return items, nil
}

type avDailyResponse struct {
	Series map[string]map[string]string `json:"Time Series (Daily)"`
}

// DailySeries returns the compact daily OHLCV series in ascending date
// order, ready for charting.
func (c *AlphaVantageClient) DailySeries(ctx context.Context, ticker string) ([]model.PricePoint, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("alpha vantage api key is not configured")
	}
	query := url.Values{}
	query.Set("function", "TIME_SERIES_DAILY")
	query.Set("symbol", ticker)
	query.Set("outputsize", "compact")
	query.Set("apikey", c.apiKey)

	var resp avDailyResponse
	err := getJSON(ctx, c.client, c.baseURL+"/query?"+query.Encode(), "", func(body []byte) error {
		return json.Unmarshal(body, &resp)
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Series) == 0 {
		return nil, fmt.Errorf("no daily series for %s (rate limit or unknown ticker)", ticker)
	}
	points := make([]model.PricePoint, 0, len(resp.Series))
	for date, values := range resp.Series {
		point := model.PricePoint{Date: date}
		point.Open = parsePrice(values["1. open"])
		point.High = parsePrice(values["2. high"])
		point.Low = parsePrice(values["3. low"])
		point.Close = parsePrice(values["4. close"])
		volume, _ := strconv.ParseInt(values["5. volume"], 10, 64)
		point.Volume = volume
		points = append(points, point)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}

func parsePrice(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// SentimentNewsFetcher adapts the Alpha Vantage news feed into the
// Fetcher shape, capped to the configured number of top items.
type SentimentNewsFetcher struct {
	client *AlphaVantageClient
	limit  int
}

func NewSentimentNewsFetcher(client *AlphaVantageClient, limit int) *SentimentNewsFetcher {
	if limit <= 0 {
		limit = 5
	}
	return &SentimentNewsFetcher{client: client, limit: limit}
}

func (f *SentimentNewsFetcher) Name() string {
	return "sentiment_news"
}

func (f *SentimentNewsFetcher) Fetch(ctx context.Context, ticker string) ([]model.Document, error) {
	items, err := f.client.NewsSentiment(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if len(items) > f.limit {
		items = items[:f.limit]
	}
	docs := make([]model.Document, 0, len(items))
	for _, item := range items {
		docs = append(docs, model.Document{
			Content: fmt.Sprintf("Title: %s\nSummary: %s\nSentiment: %v", item.Title, item.Summary, item.Sentiment),
			Source:  item.Source,
			Link:    item.URL,
			Ticker:  ticker,
		})
	}
	return docs, nil
}
