package products

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

func (s *Service) validate(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("product name is required")
	}
	if p.Price.LessThan(decimal.Zero) {
		return errors.New("product price must be >= 0")
	}
	if p.Cost.LessThan(decimal.Zero) {
		return errors.New("product cost must be >= 0")
	}
	if p.StockQuantity < 0 {
		return errors.New("stock quantity must be >= 0")
	}
	if p.LowStockThreshold < 0 {
		return errors.New("low stock threshold must be >= 0")
	}
	return nil
}
