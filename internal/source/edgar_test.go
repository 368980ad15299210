package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserAgent = "CognivestAI/1.0 (test@example.com)"

func newEdgarTestServer(t *testing.T, filingBody string, filingStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))
		fmt.Fprint(w, `{"0":{"cik_str":320193,"ticker":"ACME","title":"Acme Corp"},"1":{"cik_str":789019,"ticker":"OTHER","title":"Other Inc"}}`)
	})
	mux.HandleFunc("/submissions/CIK0000320193.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"filings":{"recent":{
			"form":["8-K","10-Q","10-K"],
			"accessionNumber":["0000320193-24-000001","0000320193-24-000002","0000320193-24-000003"],
			"primaryDocument":["ignored.htm","acme-10q.htm","acme-10k.htm"],
			"reportDate":["2024-05-01","2024-06-30","2023-12-31"]
		}}}`)
	})
	mux.HandleFunc("/Archives/edgar/data/320193/000032019324000002/acme-10q.htm", func(w http.ResponseWriter, r *http.Request) {
		if filingStatus != http.StatusOK {
			w.WriteHeader(filingStatus)
			return
		}
		fmt.Fprint(w, filingBody)
	})
	return httptest.NewServer(mux)
}

func newTestEdgarFetcher(server *httptest.Server) *EdgarFetcher {
	return NewEdgarFetcher(server.Client(), EdgarConfig{
		UserAgent:    testUserAgent,
		BaseURL:      server.URL,
		DataURL:      server.URL,
		Forms:        []string{"10-K", "10-Q"},
		FilingLimit:  1,
		ChunkSize:    60,
		ChunkOverlap: 10,
	}, nil)
}

func TestEdgarFetchChunksLatestFiling(t *testing.T) {
	body := "<html><head><style>p{}</style></head><body><p>" +
		strings.Repeat("quarterly results discussion ", 10) +
		"</p></body></html>"
	server := newEdgarTestServer(t, body, http.StatusOK)
	defer server.Close()

	docs, err := newTestEdgarFetcher(server).Fetch(context.Background(), "acme")
	require.NoError(t, err)
	require.NotEmpty(t, docs)

	// The 8-K is skipped, the single kept filing is the 10-Q.
	for i, doc := range docs {
		assert.Contains(t, doc.Content, fmt.Sprintf("SEC Filing 10-Q (2024-06-30) - Part %d/%d:", i+1, len(docs)))
		assert.Equal(t, "SEC", doc.Source)
		assert.Equal(t, "acme", doc.Ticker)
		assert.Contains(t, doc.Link, "/Archives/edgar/data/320193/000032019324000002/acme-10q.htm")
	}
	assert.Greater(t, len(docs), 1, "long filing should produce multiple chunks")
}

func TestEdgarFetchUnknownTicker(t *testing.T) {
	server := newEdgarTestServer(t, "irrelevant", http.StatusOK)
	defer server.Close()

	docs, err := newTestEdgarFetcher(server).Fetch(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestEdgarFetchDownloadFailureKeepsPlaceholder(t *testing.T) {
	server := newEdgarTestServer(t, "", http.StatusForbidden)
	defer server.Close()

	docs, err := newTestEdgarFetcher(server).Fetch(context.Background(), "ACME")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0].Content, "SEC Filing 10-Q - Date: 2024-06-30")
	assert.Contains(t, docs[0].Content, "Download error")
	assert.Equal(t, "SEC", docs[0].Source)
}
