package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/cognivest/cognivest/internal/filestore"
	"github.com/cognivest/cognivest/internal/model"
	"github.com/cognivest/cognivest/internal/pkg/htmltext"
	"github.com/cognivest/cognivest/internal/pkg/textchunk"
)

const (
	defaultEdgarBaseURL = "https://www.sec.gov"
	defaultEdgarDataURL = "https://data.sec.gov"
)

type EdgarConfig struct {
	UserAgent    string
	BaseURL      string
	DataURL      string
	Forms        []string
	FilingLimit  int
	FetchDelay   time.Duration
	ChunkSize    int
	ChunkOverlap int
}

// EdgarFetcher pulls the latest relevant filings for a ticker from the
// SEC EDGAR registry: ticker is resolved to a CIK through the public
// ticker table, the CIK's recent submissions are filtered to the
// configured form types, and each kept filing's primary document is
// downloaded, flattened and chunked.
type EdgarFetcher struct {
	client  *http.Client
	cfg     EdgarConfig
	archive filestore.Store
}

func NewEdgarFetcher(client *http.Client, cfg EdgarConfig, archive filestore.Store) *EdgarFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultEdgarBaseURL
	}
	if cfg.DataURL == "" {
		cfg.DataURL = defaultEdgarDataURL
	}
	if len(cfg.Forms) == 0 {
		cfg.Forms = []string{"10-K", "10-Q"}
	}
	if cfg.FilingLimit <= 0 {
		cfg.FilingLimit = 1
	}
	return &EdgarFetcher{client: client, cfg: cfg, archive: archive}
}

func (f *EdgarFetcher) Name() string {
	return "sec_filings"
}

func (f *EdgarFetcher) Fetch(ctx context.Context, ticker string) ([]model.Document, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("fetcher", f.Name()), zap.String("ticker", ticker))

	cik, ok, err := f.resolveCIK(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("resolve cik: %w", err)
	}
	if !ok {
		logger.Info("ticker not present in registry, skipping filings")
		return nil, nil
	}
	logger.Info("resolved registry identifier", zap.Int64("cik", cik))

	refs, err := f.listRecentFilings(ctx, cik)
	if err != nil {
		return nil, fmt.Errorf("list recent filings: %w", err)
	}

	var docs []model.Document
	kept := 0
	for _, ref := range refs {
		if !f.wantForm(ref.Form) {
			continue
		}
		link := fmt.Sprintf("%s/Archives/edgar/data/%d/%s/%s",
			f.cfg.BaseURL, cik, strings.ReplaceAll(ref.Accession, "-", ""), ref.PrimaryDoc)

		// Provider etiquette: pause before each document download.
		if f.cfg.FetchDelay > 0 {
			select {
			case <-time.After(f.cfg.FetchDelay):
			case <-ctx.Done():
				return docs, ctx.Err()
			}
		}

		raw, err := getBytes(ctx, f.client, link, f.cfg.UserAgent)
		if err != nil {
			logger.Warn("filing download failed, keeping placeholder", zap.String("link", link), zap.Error(err))
			docs = append(docs, model.Document{
				Content: fmt.Sprintf("SEC Filing %s - Date: %s\nLink: %s\n(Download error: %v)", ref.Form, ref.ReportDate, link, err),
				Source:  "SEC",
				Link:    link,
				Ticker:  ticker,
			})
		} else {
			f.archiveRaw(ctx, ticker, ref, raw)
			chunked, err := f.chunkFiling(ticker, ref, link, raw)
			if err != nil {
				return nil, err
			}
			logger.Info("filing chunked", zap.String("form", ref.Form), zap.Int("chunks", len(chunked)))
			docs = append(docs, chunked...)
		}

		kept++
		if kept >= f.cfg.FilingLimit {
			break
		}
	}
	return docs, nil
}

func (f *EdgarFetcher) chunkFiling(ticker string, ref model.FilingRef, link string, raw []byte) ([]model.Document, error) {
	text := htmltext.Clean(raw)
	chunks, err := textchunk.Split(text, f.cfg.ChunkSize, f.cfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("chunk filing: %w", err)
	}
	docs := make([]model.Document, 0, len(chunks))
	for i, chunk := range chunks {
		docs = append(docs, model.Document{
			Content: fmt.Sprintf("SEC Filing %s (%s) - Part %d/%d:\n%s", ref.Form, ref.ReportDate, i+1, len(chunks), chunk),
			Source:  "SEC",
			Link:    link,
			Ticker:  ticker,
		})
	}
	return docs, nil
}

func (f *EdgarFetcher) archiveRaw(ctx context.Context, ticker string, ref model.FilingRef, raw []byte) {
	if f.archive == nil {
		return
	}
	key := fmt.Sprintf("%s_%s_%s.htm", strings.ToUpper(ticker), ref.Form, strings.ReplaceAll(ref.Accession, "-", ""))
	if err := f.archive.Save(ctx, key, raw); err != nil {
		logutil.GetLogger(ctx).Warn("archive filing failed", zap.String("key", key), zap.Error(err))
	}
}

func (f *EdgarFetcher) wantForm(form string) bool {
	for _, want := range f.cfg.Forms {
		if strings.EqualFold(form, want) {
			return true
		}
	}
	return false
}

type tickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
}

func (f *EdgarFetcher) resolveCIK(ctx context.Context, ticker string) (int64, bool, error) {
	var table map[string]tickerEntry
	err := getJSON(ctx, f.client, f.cfg.BaseURL+"/files/company_tickers.json", f.cfg.UserAgent, func(body []byte) error {
		return json.Unmarshal(body, &table)
	})
	if err != nil {
		return 0, false, err
	}
	upper := strings.ToUpper(ticker)
	for _, entry := range table {
		if entry.Ticker == upper {
			return entry.CIK, true, nil
		}
	}
	return 0, false, nil
}

type submissionsResponse struct {
	Filings struct {
		Recent struct {
			Form            []string `json:"form"`
			AccessionNumber []string `json:"accessionNumber"`
			PrimaryDocument []string `json:"primaryDocument"`
			ReportDate      []string `json:"reportDate"`
		} `json:"recent"`
	} `json:"filings"`
}

func (f *EdgarFetcher) listRecentFilings(ctx context.Context, cik int64) ([]model.FilingRef, error) {
	url := fmt.Sprintf("%s/submissions/CIK%010d.json", f.cfg.DataURL, cik)
	var resp submissionsResponse
	err := getJSON(ctx, f.client, url, f.cfg.UserAgent, func(body []byte) error {
		return json.Unmarshal(body, &resp)
	})
	if err != nil {
		return nil, err
	}
	recent := resp.Filings.Recent
	refs := make([]model.FilingRef, 0, len(recent.Form))
	for i, form := range recent.Form {
		if i >= len(recent.AccessionNumber) || i >= len(recent.PrimaryDocument) || i >= len(recent.ReportDate) {
			break
		}
		refs = append(refs, model.FilingRef{
			Form:       form,
			ReportDate: recent.ReportDate[i],
			Accession:  recent.AccessionNumber[i],
			PrimaryDoc: recent.PrimaryDocument[i],
		})
	}
	return refs, nil
}
