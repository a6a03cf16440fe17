package billing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogProduct is the sellable snapshot of a product at the moment the
// invoice workflow starts: price, tax rate and the stock that may be sold.
type CatalogProduct struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	HSNSAC       string          `json:"hsn_sac"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TaxRate      int             `json:"tax_rate"`
	CurrentStock int             `json:"current_stock"`
}

// LineItem is one product entry on the draft invoice.
type LineItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	HSNSAC    string          `json:"hsn_sac"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   int             `json:"tax_rate"`
	Quantity  int             `json:"quantity"`
	// StockAtSelection is the available stock captured when the product was
	// selected into the draft. Display only; the ledger holds the live pool.
	StockAtSelection int `json:"stock_at_selection"`
}

// Gross is quantity times unit price, before discount and tax.
func (l LineItem) Gross() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// StockLedger tracks remaining sellable stock per product while a single
// draft invoice is edited. It is exclusively owned by one editing session;
// no internal locking.
type StockLedger struct {
	catalog   map[uuid.UUID]CatalogProduct
	available map[uuid.UUID]int
	lines     []LineItem
}

// NewStockLedger seeds the ledger from the product catalog snapshot taken at
// workflow start.
func NewStockLedger(catalog []CatalogProduct) *StockLedger {
	ledger := &StockLedger{
		catalog:   make(map[uuid.UUID]CatalogProduct, len(catalog)),
		available: make(map[uuid.UUID]int, len(catalog)),
	}
	for _, p := range catalog {
		ledger.catalog[p.ID] = p
		ledger.available[p.ID] = p.CurrentStock
	}
	return ledger
}

// SelectProduct returns a fresh draft line at quantity 1 for the given
// product, capturing the currently available stock as its ceiling. The line
// is not reserved until AddLine.
func (s *StockLedger) SelectProduct(productID uuid.UUID) (LineItem, error) {
	p, ok := s.catalog[productID]
	if !ok {
		return LineItem{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return LineItem{
		ProductID:        p.ID,
		Name:             p.Name,
		SKU:              p.SKU,
		HSNSAC:           p.HSNSAC,
		UnitPrice:        p.UnitPrice,
		TaxRate:          p.TaxRate,
		Quantity:         1,
		StockAtSelection: s.available[p.ID],
	}, nil
}

// AddLine reserves the line's quantity against the stock pool and appends it
// to the draft. The draft is left unchanged on any error.
func (s *StockLedger) AddLine(line LineItem) error {
	if _, ok := s.catalog[line.ProductID]; !ok {
		return fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
	}
	if line.Quantity < 1 {
		return ErrInvalidQuantity
	}
	available := s.available[line.ProductID]
	if line.Quantity > available {
		return fmt.Errorf("%w: only %d of %q available", ErrInsufficientStock, available, line.Name)
	}
	s.available[line.ProductID] = available - line.Quantity
	s.lines = append(s.lines, line)
	return nil
}

// RemoveLine returns the line's reserved quantity to the stock pool and
// drops the line from the draft.
func (s *StockLedger) RemoveLine(index int) error {
	if index < 0 || index >= len(s.lines) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	removed := s.lines[index]
	s.available[removed.ProductID] += removed.Quantity
	s.lines = append(s.lines[:index], s.lines[index+1:]...)
	return nil
}

// ChangeLineQuantity adjusts an existing line. The effective ceiling counts
// the line's own reservation, so lowering a quantity always succeeds.
// Exceeding the ceiling is rejected, never silently clamped.
func (s *StockLedger) ChangeLineQuantity(index, newQuantity int) error {
	if index < 0 || index >= len(s.lines) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if newQuantity < 1 {
		return ErrInvalidQuantity
	}
	line := s.lines[index]
	ceiling := s.available[line.ProductID] + line.Quantity
	if newQuantity > ceiling {
		return fmt.Errorf("%w: only %d of %q available", ErrInsufficientStock, ceiling, line.Name)
	}
	s.available[line.ProductID] = ceiling - newQuantity
	s.lines[index].Quantity = newQuantity
	return nil
}

// Available reports the remaining sellable stock for a product.
func (s *StockLedger) Available(productID uuid.UUID) int {
	return s.available[productID]
}

// Lines returns the draft lines in insertion order.
func (s *StockLedger) Lines() []LineItem {
	out := make([]LineItem, len(s.lines))
	copy(out, s.lines)
	return out
}
