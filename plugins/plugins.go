// Package plugins adapts the external domain collaborators (product catalog,
// order store, policy search index) into tools agents can invoke. Each
// constructor returns the tool set for one domain; collaborator failures are
// reported as tool errors so the calling agent can react to them instead of
// aborting the turn.
package plugins

import (
	"context"
	"time"
)

// Product is the JSON-serializable shape returned by product tools.
type Product struct {
	ID          string  `json:"id"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Inventory   int     `json:"inventory"`
}

// Order is the JSON-serializable shape returned by order tools.
type Order struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customerId,omitempty"`
	ProductID   string    `json:"productId,omitempty"`
	Price       float64   `json:"price,omitempty"`
	Quantity    int       `json:"quantity,omitempty"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// PolicyHit is one search result from the policy/reference index.
type PolicyHit struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Source  string  `json:"source,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

// ProductCatalog is the external collaborator behind the product tools.
type ProductCatalog interface {
	Search(ctx context.Context, query string, limit int) ([]Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
}

// OrderQuery filters order searches; zero values are ignored.
type OrderQuery struct {
	OrderID     string
	ProductID   string
	Description string
	Limit       int
}

// OrderStore is the external collaborator behind the order tools.
type OrderStore interface {
	GetOrder(ctx context.Context, id string) (*Order, error)
	SearchOrders(ctx context.Context, q OrderQuery) ([]Order, error)
	ListRecentOrders(ctx context.Context, customerID string, limit int) ([]Order, error)
}

// PolicyIndex is the external collaborator behind the reference lookup tool.
type PolicyIndex interface {
	Search(ctx context.Context, query string, limit int) ([]PolicyHit, error)
}

func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		if v > 0 {
			return int(v)
		}
	case int:
		if v > 0 {
			return v
		}
	}
	return fallback
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}
