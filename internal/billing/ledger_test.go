package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() ([]CatalogProduct, uuid.UUID, uuid.UUID) {
	seedsID := uuid.New()
	toolsID := uuid.New()
	catalog := []CatalogProduct{
		{
			ID:           seedsID,
			Name:         "Hybrid Tomato Seeds",
			SKU:          "SEED-TOM-01",
			HSNSAC:       "120991",
			UnitPrice:    decimal.NewFromInt(100),
			TaxRate:      18,
			CurrentStock: 10,
		},
		{
			ID:           toolsID,
			Name:         "Pruning Shears",
			SKU:          "TOOL-PRN-02",
			HSNSAC:       "820150",
			UnitPrice:    decimal.NewFromFloat(249.50),
			TaxRate:      12,
			CurrentStock: 3,
		},
	}
	return catalog, seedsID, toolsID
}

func TestSelectProduct(t *testing.T) {
	catalog, seedsID, _ := testCatalog()
	ledger := NewStockLedger(catalog)

	line, err := ledger.SelectProduct(seedsID)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, 10, line.StockAtSelection)
	assert.Equal(t, "SEED-TOM-01", line.SKU)
	assert.Equal(t, 18, line.TaxRate)

	// Selection alone reserves nothing.
	assert.Equal(t, 10, ledger.Available(seedsID))
}

func TestSelectProductUnknown(t *testing.T) {
	catalog, _, _ := testCatalog()
	ledger := NewStockLedger(catalog)

	_, err := ledger.SelectProduct(uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddLineReservesStock(t *testing.T) {
	catalog, seedsID, _ := testCatalog()
	ledger := NewStockLedger(catalog)

	line, err := ledger.SelectProduct(seedsID)
	require.NoError(t, err)
	line.Quantity = 4

	require.NoError(t, ledger.AddLine(line))
	assert.Equal(t, 6, ledger.Available(seedsID))
	assert.Len(t, ledger.Lines(), 1)
}

func TestAddLineInsufficientStock(t *testing.T) {
	catalog, _, toolsID := testCatalog()
	ledger := NewStockLedger(catalog)

	line, err := ledger.SelectProduct(toolsID)
	require.NoError(t, err)
	line.Quantity = 4 // only 3 in stock

	err = ledger.AddLine(line)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "only 3")

	// Rejected mutation leaves the draft unchanged.
	assert.Equal(t, 3, ledger.Available(toolsID))
	assert.Empty(t, ledger.Lines())
}

func TestAddLineInvalidQuantity(t *testing.T) {
	catalog, seedsID, _ := testCatalog()
	ledger := NewStockLedger(catalog)

	line, err := ledger.SelectProduct(seedsID)
	require.NoError(t, err)

	line.Quantity = 0
	assert.ErrorIs(t, ledger.AddLine(line), ErrInvalidQuantity)

	line.Quantity = -2
	assert.ErrorIs(t, ledger.AddLine(line), ErrInvalidQuantity)
	assert.Equal(t, 10, ledger.Available(seedsID))
}

func TestRemoveLineRestoresStock(t *testing.T) {
	catalog, seedsID, _ := testCatalog()
	ledger := NewStockLedger(catalog)

	line, err := ledger.SelectProduct(seedsID)
	require.NoError(t, err)
	line.Quantity = 7
	require.NoError(t, ledger.AddLine(line))
	require.Equal(t, 3, ledger.Available(seedsID))

	// Round trip: add then remove restores the pre-add pool.
	require.NoError(t, ledger.RemoveLine(0))
	assert.Equal(t, 10, ledger.Available(seedsID))
	assert.Empty(t, ledger.Lines())
}

func TestRemoveLineOutOfRange(t *testing.T) {
	catalog, _, _ := testCatalog()
	ledger := NewStockLedger(catalog)

	assert.ErrorIs(t, ledger.RemoveLine(0), ErrIndexOutOfRange)
	assert.ErrorIs(t, ledger.RemoveLine(-1), ErrIndexOutOfRange)
}

func TestChangeLineQuantity(t *testing.T) {
	catalog, seedsID, _ := testCatalog()
	ledger := NewStockLedger(catalog)

	line, err := ledger.SelectProduct(seedsID)
	require.NoError(t, err)
	line.Quantity = 4
	require.NoError(t, ledger.AddLine(line))

	// Ceiling includes the line's own reservation: 6 free + 4 held = 10.
	require.NoError(t, ledger.ChangeLineQuantity(0, 10))
	assert.Equal(t, 0, ledger.Available(seedsID))
	assert.Equal(t, 10, ledger.Lines()[0].Quantity)

	// One past the ceiling is rejected, not clamped.
	err = ledger.ChangeLineQuantity(0, 11)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 10, ledger.Lines()[0].Quantity)

	// Lowering always succeeds and frees stock.
	require.NoError(t, ledger.ChangeLineQuantity(0, 2))
	assert.Equal(t, 8, ledger.Available(seedsID))
}

func TestChangeLineQuantityErrors(t *testing.T) {
	catalog, seedsID, _ := testCatalog()
	ledger := NewStockLedger(catalog)

	line, err := ledger.SelectProduct(seedsID)
	require.NoError(t, err)
	require.NoError(t, ledger.AddLine(line))

	assert.ErrorIs(t, ledger.ChangeLineQuantity(5, 1), ErrIndexOutOfRange)
	assert.ErrorIs(t, ledger.ChangeLineQuantity(0, 0), ErrInvalidQuantity)
}

func TestLedgerTracksMultipleProducts(t *testing.T) {
	catalog, seedsID, toolsID := testCatalog()
	ledger := NewStockLedger(catalog)

	seeds, err := ledger.SelectProduct(seedsID)
	require.NoError(t, err)
	seeds.Quantity = 2
	require.NoError(t, ledger.AddLine(seeds))

	tools, err := ledger.SelectProduct(toolsID)
	require.NoError(t, err)
	require.NoError(t, ledger.AddLine(tools))

	assert.Equal(t, 8, ledger.Available(seedsID))
	assert.Equal(t, 2, ledger.Available(toolsID))

	require.NoError(t, ledger.RemoveLine(0))
	assert.Equal(t, 10, ledger.Available(seedsID))
	assert.Equal(t, 2, ledger.Available(toolsID))
	require.Len(t, ledger.Lines(), 1)
	assert.Equal(t, toolsID, ledger.Lines()[0].ProductID)
}
