package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveGSTType(t *testing.T) {
	tests := []struct {
		name        string
		sellerGSTIN string
		sellerState string
		buyerGSTIN  string
		buyerState  string
		want        GSTType
	}{
		{
			name:        "same state is intra-state",
			sellerGSTIN: "27AAAAA1234A1Z5",
			sellerState: "MH",
			buyerGSTIN:  "27BBBBB5678B1Z3",
			buyerState:  "MH",
			want:        GSTIntraState,
		},
		{
			name:        "different states is inter-state",
			sellerGSTIN: "27AAAAA1234A1Z5",
			sellerState: "MH",
			buyerGSTIN:  "29BBBBB5678B1Z3",
			buyerState:  "KA",
			want:        GSTInterState,
		},
		{
			name:        "state comparison is case-insensitive",
			sellerGSTIN: "27AAAAA1234A1Z5",
			sellerState: "mh",
			buyerGSTIN:  "27BBBBB5678B1Z3",
			buyerState:  "MH",
			want:        GSTIntraState,
		},
		{
			name:       "missing seller GSTIN stays unresolved",
			buyerGSTIN: "29BBBBB5678B1Z3",
			buyerState: "KA",
			want:       GSTUnresolved,
		},
		{
			name:        "missing buyer GSTIN stays unresolved",
			sellerGSTIN: "27AAAAA1234A1Z5",
			sellerState: "MH",
			want:        GSTUnresolved,
		},
		{
			name:        "whitespace GSTIN counts as missing",
			sellerGSTIN: "   ",
			sellerState: "MH",
			buyerGSTIN:  "29BBBBB5678B1Z3",
			buyerState:  "KA",
			want:        GSTUnresolved,
		},
		{
			name:        "state codes derived from GSTIN prefix when absent",
			sellerGSTIN: "27AAAAA1234A1Z5",
			buyerGSTIN:  "27BBBBB5678B1Z3",
			want:        GSTIntraState,
		},
		{
			name:        "derived prefixes differ gives inter-state",
			sellerGSTIN: "27AAAAA1234A1Z5",
			buyerGSTIN:  "29BBBBB5678B1Z3",
			want:        GSTInterState,
		},
		{
			name:        "letter code on one side only falls back to GSTIN prefixes",
			sellerGSTIN: "27AAAAA1234A1Z5",
			sellerState: "MH",
			buyerGSTIN:  "27BBBBB5678B1Z3",
			want:        GSTIntraState,
		},
		{
			name:        "mixed encodings with different states gives inter-state",
			sellerGSTIN: "27AAAAA1234A1Z5",
			sellerState: "MH",
			buyerGSTIN:  "29BBBBB5678B1Z3",
			want:        GSTInterState,
		},
		{
			name:        "letter code against numeric code falls back to GSTIN prefixes",
			sellerGSTIN: "27AAAAA1234A1Z5",
			sellerState: "MH",
			buyerGSTIN:  "27BBBBB5678B1Z3",
			buyerState:  "27",
			want:        GSTIntraState,
		},
		{
			name:        "fallback without a numeric GSTIN prefix stays unresolved",
			sellerGSTIN: "XXAAAAA1234A1Z5",
			sellerState: "MH",
			buyerGSTIN:  "27BBBBB5678B1Z3",
			want:        GSTUnresolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveGSTType(tt.sellerGSTIN, tt.sellerState, tt.buyerGSTIN, tt.buyerState)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGSTTypeLabel(t *testing.T) {
	assert.Equal(t, "CGST_SGST", GSTIntraState.Label())
	assert.Equal(t, "IGST", GSTInterState.Label())
	assert.Equal(t, "UNRESOLVED", GSTUnresolved.Label())
}

func TestStateCodeFromGSTIN(t *testing.T) {
	assert.Equal(t, "27", StateCodeFromGSTIN("27AAAAA1234A1Z5"))
	assert.Equal(t, "", StateCodeFromGSTIN("2"))
	assert.Equal(t, "", StateCodeFromGSTIN(""))
}
