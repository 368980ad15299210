package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentimentNewsFetcherCapsTopItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "NEWS_SENTIMENT", r.URL.Query().Get("function"))
		assert.Equal(t, "ACME", r.URL.Query().Get("tickers"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		fmt.Fprint(w, `{"feed":[
			{"title":"n1","summary":"s1","overall_sentiment_score":0.31,"source":"WireA","url":"https://a/1"},
			{"title":"n2","summary":"s2","overall_sentiment_score":-0.12,"source":"WireB","url":"https://a/2"},
			{"title":"n3","summary":"s3","overall_sentiment_score":0.05,"source":"WireA","url":"https://a/3"},
			{"title":"n4","summary":"s4","overall_sentiment_score":0,"source":"WireC","url":"https://a/4"},
			{"title":"n5","summary":"s5","overall_sentiment_score":0.9,"source":"WireA","url":"https://a/5"},
			{"title":"n6","summary":"s6","overall_sentiment_score":0.2,"source":"WireD","url":"https://a/6"}
		]}`)
	}))
	defer server.Close()

	client := NewAlphaVantageClient(server.Client(), "test-key", server.URL)
	fetcher := NewSentimentNewsFetcher(client, 5)

	docs, err := fetcher.Fetch(context.Background(), "ACME")
	require.NoError(t, err)
	require.Len(t, docs, 5)
	assert.Contains(t, docs[0].Content, "Title: n1")
	assert.Contains(t, docs[0].Content, "Summary: s1")
	assert.Contains(t, docs[0].Content, "Sentiment: 0.31")
	assert.Equal(t, "WireA", docs[0].Source)
	assert.Equal(t, "https://a/1", docs[0].Link)
	assert.Equal(t, "ACME", docs[0].Ticker)
}

func TestSentimentNewsFetcherNoKey(t *testing.T) {
	client := NewAlphaVantageClient(nil, "", "http://unused")
	fetcher := NewSentimentNewsFetcher(client, 5)

	_, err := fetcher.Fetch(context.Background(), "ACME")
	assert.Error(t, err)
}

func TestDailySeriesParsesAndSorts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_DAILY", r.URL.Query().Get("function"))
		assert.Equal(t, "ACME", r.URL.Query().Get("symbol"))
		fmt.Fprint(w, `{"Time Series (Daily)":{
			"2024-06-12":{"1. open":"101.5","2. high":"103.0","3. low":"100.2","4. close":"102.7","5. volume":"1200345"},
			"2024-06-10":{"1. open":"99.0","2. high":"100.5","3. low":"98.1","4. close":"100.1","5. volume":"900000"},
			"2024-06-11":{"1. open":"100.1","2. high":"102.2","3. low":"99.9","4. close":"101.4","5. volume":"1100000"}
		}}`)
	}))
	defer server.Close()

	client := NewAlphaVantageClient(server.Client(), "test-key", server.URL)
	points, err := client.DailySeries(context.Background(), "ACME")
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, "2024-06-10", points[0].Date)
	assert.Equal(t, "2024-06-12", points[2].Date)
	assert.Equal(t, 102.7, points[2].Close)
	assert.Equal(t, int64(1200345), points[2].Volume)
}

func TestDailySeriesEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Note":"rate limited"}`)
	}))
	defer server.Close()

	client := NewAlphaVantageClient(server.Client(), "test-key", server.URL)
	_, err := client.DailySeries(context.Background(), "ACME")
	assert.Error(t, err)
}
