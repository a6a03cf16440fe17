package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestPageParams(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", query: "", wantLimit: 10, wantOffset: 0},
		{name: "explicit values", query: "limit=25&offset=50", wantLimit: 25, wantOffset: 50},
		{name: "limit capped", query: "limit=5000", wantLimit: 100, wantOffset: 0},
		{name: "negative values ignored", query: "limit=-5&offset=-10", wantLimit: 10, wantOffset: 0},
		{name: "garbage ignored", query: "limit=abc&offset=xyz", wantLimit: 10, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			c := e.NewContext(req, httptest.NewRecorder())

			limit, offset := pageParams(c)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}
