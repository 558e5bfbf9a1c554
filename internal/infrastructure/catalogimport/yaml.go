// Package catalogimport reads shop price lists for the catalog import.
//
// A price list is a YAML document:
//
//	shop: Svyaznoy
//	categories:
//	  - id: 224
//	    name: Smartphones
//	goods:
//	  - id: 4216292
//	    category: 224
//	    model: apple/iphone/xs-max
//	    name: Smartphone Apple iPhone XS Max 512GB (gold)
//	    price: 110000
//	    price_rrc: 116990
//	    quantity: 14
//	    parameters:
//	      "Memory (GB)": 512
//	      Color: gold
package catalogimport

import (
	"errors"
	"fmt"
	"io"

	appcatalog "github.com/shopfront/backend/internal/application/catalog"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument is returned for a price list without content
var ErrEmptyDocument = errors.New("price list is empty")

type document struct {
	Shop       string     `yaml:"shop"`
	URL        string     `yaml:"url"`
	Categories []category `yaml:"categories"`
	Goods      []good     `yaml:"goods"`
}

type category struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

type good struct {
	ID         int               `yaml:"id"`
	Category   int               `yaml:"category"`
	Model      string            `yaml:"model"`
	Name       string            `yaml:"name"`
	Price      amount            `yaml:"price"`
	PriceRRC   amount            `yaml:"price_rrc"`
	Quantity   int               `yaml:"quantity"`
	Parameters map[string]scalar `yaml:"parameters"`
}

// amount decodes a YAML number without a float round trip
type amount struct {
	decimal.Decimal
}

func (a *amount) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: price must be a number", n.Line)
	}
	d, err := decimal.NewFromString(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid price %q", n.Line, n.Value)
	}
	a.Decimal = d
	return nil
}

// scalar keeps a parameter value as written, so 512 stays "512"
type scalar string

func (s *scalar) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: parameter value must be a scalar", n.Line)
	}
	*s = scalar(n.Value)
	return nil
}

// Parse decodes a price list into an import request
func Parse(r io.Reader) (*appcatalog.ImportGoodsRequest, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("decode price list: %w", err)
	}

	req := &appcatalog.ImportGoodsRequest{
		Shop:       doc.Shop,
		URL:        doc.URL,
		Categories: make([]appcatalog.ImportCategory, len(doc.Categories)),
		Goods:      make([]appcatalog.ImportGood, len(doc.Goods)),
	}
	for i, c := range doc.Categories {
		req.Categories[i] = appcatalog.ImportCategory{ID: c.ID, Name: c.Name}
	}
	for i, g := range doc.Goods {
		item := appcatalog.ImportGood{
			ID:       g.ID,
			Category: g.Category,
			Model:    g.Model,
			Name:     g.Name,
			Price:    g.Price.Decimal,
			PriceRRC: g.PriceRRC.Decimal,
			Quantity: g.Quantity,
		}
		if len(g.Parameters) > 0 {
			item.Parameters = make(map[string]string, len(g.Parameters))
			for name, value := range g.Parameters {
				item.Parameters[name] = string(value)
			}
		}
		req.Goods[i] = item
	}
	return req, nil
}
