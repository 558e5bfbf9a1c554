package catalogimport

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopYAML = `
shop: Svyaznoy
categories:
  - id: 224
    name: Smartphones
  - id: 15
    name: Accessories
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Smartphone Apple iPhone XS Max 512GB (gold)
    price: 110000
    price_rrc: 116990
    quantity: 14
    parameters:
      "Diagonal (inch)": 6.5
      "Memory (GB)": 512
      Color: gold
  - id: 4672670
    category: 15
    model: apple/airpods
    name: Headphones Apple AirPods
    price: 13990.50
    price_rrc: 14990
    quantity: 4
`

func TestParse(t *testing.T) {
	req, err := Parse(strings.NewReader(shopYAML))
	require.NoError(t, err)

	assert.Equal(t, "Svyaznoy", req.Shop)
	require.Len(t, req.Categories, 2)
	assert.Equal(t, 224, req.Categories[0].ID)
	require.Len(t, req.Goods, 2)

	phone := req.Goods[0]
	assert.Equal(t, 4216292, phone.ID)
	assert.Equal(t, 224, phone.Category)
	assert.Equal(t, 14, phone.Quantity)
	assert.True(t, phone.Price.Equal(decimal.NewFromInt(110000)))
	assert.Equal(t, map[string]string{
		"Diagonal (inch)": "6.5",
		"Memory (GB)":     "512",
		"Color":           "gold",
	}, phone.Parameters)

	pods := req.Goods[1]
	assert.Equal(t, "13990.5", pods.Price.String())
	assert.Nil(t, pods.Parameters)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty document", "", "price list is empty"},
		{"non numeric price", "shop: x\ngoods:\n  - id: 1\n    price: cheap\n", `invalid price "cheap"`},
		{"nested parameter", "shop: x\ngoods:\n  - id: 1\n    parameters:\n      Color: [red, blue]\n", "parameter value must be a scalar"},
		{"malformed yaml", "shop: [", "decode price list"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
