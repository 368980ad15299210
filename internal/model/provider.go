package model

// FilingRef is one entry from the filings registry's recent-filings
// list, before the primary document has been downloaded.
type FilingRef struct {
	Form       string `json:"form"`
	ReportDate string `json:"report_date"`
	Accession  string `json:"accession"`
	PrimaryDoc string `json:"primary_doc"`
}

// SentimentNewsItem is a normalized entry from the sentiment-tagged
// news feed.
type SentimentNewsItem struct {
	Title     string  `json:"title"`
	Summary   string  `json:"summary"`
	Sentiment float64 `json:"sentiment"`
	Source    string  `json:"source"`
	URL       string  `json:"url"`
}

// NewsItem is a normalized entry from the general news feed.
type NewsItem struct {
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	Link      string `json:"link"`
}

// PricePoint is one day of OHLCV data for the price-history endpoint.
type PricePoint struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}
