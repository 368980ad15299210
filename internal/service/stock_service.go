package service

import (
	"context"

	"github.com/cognivest/cognivest/internal/model"
	"github.com/cognivest/cognivest/internal/source"
)

// StockService is a thin passthrough over the provider's daily price
// series for the charting endpoint.
type StockService struct {
	prices *source.AlphaVantageClient
}

func NewStockService(prices *source.AlphaVantageClient) *StockService {
	return &StockService{prices: prices}
}

func (s *StockService) Daily(ctx context.Context, ticker string) ([]model.PricePoint, error) {
	return s.prices.DailySeries(ctx, ticker)
}
