package plugins

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triagekit/triagekit/tool"
)

type fakeOrderStore struct {
	orders map[string]Order
	err    error
}

func (s *fakeOrderStore) GetOrder(_ context.Context, id string) (*Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	if o, ok := s.orders[id]; ok {
		return &o, nil
	}
	return nil, nil
}

func (s *fakeOrderStore) SearchOrders(_ context.Context, q OrderQuery) ([]Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []Order
	for _, o := range s.orders {
		if q.OrderID == "" || o.ID == q.OrderID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) ListRecentOrders(_ context.Context, customerID string, _ int) ([]Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []Order
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeCatalog struct {
	products map[string]Product
	err      error
}

func (c *fakeCatalog) Search(_ context.Context, query string, limit int) ([]Product, error) {
	if c.err != nil {
		return nil, c.err
	}
	var out []Product
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			out = append(out, p)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (c *fakeCatalog) GetBySKU(_ context.Context, sku string) (*Product, error) {
	if c.err != nil {
		return nil, c.err
	}
	if p, ok := c.products[sku]; ok {
		return &p, nil
	}
	return nil, nil
}

type fakePolicyIndex struct {
	hits []PolicyHit
	err  error
}

func (i *fakePolicyIndex) Search(context.Context, string, int) ([]PolicyHit, error) {
	return i.hits, i.err
}

func findTool(t *testing.T, tools []tool.Tool, name string) tool.Tool {
	t.Helper()
	for _, tl := range tools {
		if tl.Name() == name {
			return tl
		}
	}
	t.Fatalf("tool %s not found", name)
	return nil
}

func TestCheckOrderStatus_Found(t *testing.T) {
	store := &fakeOrderStore{orders: map[string]Order{
		"1001": {ID: "1001", Status: "shipped"},
	}}
	tl := findTool(t, OrderTools(store), "check_order_status")

	got, err := tl.Call(context.Background(), map[string]any{"order_id": "1001"})
	require.NoError(t, err)
	order, ok := got.(*Order)
	require.True(t, ok)
	assert.Equal(t, "shipped", order.Status)
}

func TestCheckOrderStatus_NotFoundIsMessage(t *testing.T) {
	tl := findTool(t, OrderTools(&fakeOrderStore{}), "check_order_status")

	got, err := tl.Call(context.Background(), map[string]any{"order_id": "ORD-123"})
	require.NoError(t, err)
	msg, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "No order found for id ORD-123", msg["message"])
}

func TestCheckOrderStatus_CollaboratorError(t *testing.T) {
	tl := findTool(t, OrderTools(&fakeOrderStore{err: errors.New("cosmos down")}), "check_order_status")

	_, err := tl.Call(context.Background(), map[string]any{"order_id": "1001"})
	require.Error(t, err)
	var terr *tool.ToolError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, tool.CodeCollaborator, terr.Code)
}

func TestSearchOrders_EmptyIsArray(t *testing.T) {
	tl := findTool(t, OrderTools(&fakeOrderStore{}), "search_orders")

	got, err := tl.Call(context.Background(), map[string]any{"order_id": "none"})
	require.NoError(t, err)
	orders, ok := got.([]Order)
	require.True(t, ok)
	assert.Empty(t, orders)

	// Serializes as [] (not null) for the model.
	raw, err := json.Marshal(orders)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestListRecentOrders_RequiresCustomerID(t *testing.T) {
	tl := findTool(t, OrderTools(&fakeOrderStore{}), "list_recent_orders")

	_, err := tl.Call(context.Background(), map[string]any{})
	require.Error(t, err)
	var terr *tool.ToolError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, tool.CodeValidation, terr.Code)
}

func TestSearchProducts(t *testing.T) {
	cat := &fakeCatalog{products: map[string]Product{
		"SEA-100": {ID: "p-1", SKU: "SEA-100", Name: "Seafoam Light"},
	}}
	tl := findTool(t, ProductTools(cat), "search_products")

	got, err := tl.Call(context.Background(), map[string]any{"query": "seafoam"})
	require.NoError(t, err)
	products, ok := got.([]Product)
	require.True(t, ok)
	require.Len(t, products, 1)
	assert.Equal(t, "SEA-100", products[0].SKU)
}

func TestGetBySKU_NotFoundIsMessage(t *testing.T) {
	tl := findTool(t, ProductTools(&fakeCatalog{}), "get_by_sku")

	got, err := tl.Call(context.Background(), map[string]any{"sku": "NOPE-1"})
	require.NoError(t, err)
	msg, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "No product found for SKU NOPE-1", msg["message"])
}

func TestGetBySKU_TrimsLongDescription(t *testing.T) {
	long := strings.Repeat("x", 300)
	cat := &fakeCatalog{products: map[string]Product{
		"SEA-100": {SKU: "SEA-100", Name: "Seafoam Light", Description: long},
	}}
	tl := findTool(t, ProductTools(cat), "get_by_sku")

	got, err := tl.Call(context.Background(), map[string]any{"sku": "SEA-100"})
	require.NoError(t, err)
	prod, ok := got.(Product)
	require.True(t, ok)
	assert.Len(t, prod.Description, 243)
	assert.True(t, strings.HasSuffix(prod.Description, "..."))
}

func TestLookupReference(t *testing.T) {
	index := &fakePolicyIndex{hits: []PolicyHit{
		{Title: "Return policy", Content: "30 days for unopened paint."},
	}}
	tl := findTool(t, PolicyTools(index), "lookup_reference")

	got, err := tl.Call(context.Background(), map[string]any{"query": "return policy"})
	require.NoError(t, err)
	hits, ok := got.([]PolicyHit)
	require.True(t, ok)
	require.Len(t, hits, 1)
	assert.Equal(t, "Return policy", hits[0].Title)
}

func TestFulfillmentTools(t *testing.T) {
	proc := &fakeProcessor{}
	refund := findTool(t, RefundTools(proc), "process_refund")
	ret := findTool(t, ReturnTools(proc), "process_return")

	got, err := refund.Call(context.Background(), map[string]any{"order_id": "1001", "reason": "damaged"})
	require.NoError(t, err)
	assert.Equal(t, "Refund for order 1001 has been processed successfully.", got)

	got, err = ret.Call(context.Background(), map[string]any{"order_id": "1001", "reason": "wrong color"})
	require.NoError(t, err)
	assert.Equal(t, "Return for order 1001 has been processed successfully.", got)
	assert.Equal(t, []string{"refund:1001:damaged", "return:1001:wrong color"}, proc.log)
}

type fakeProcessor struct {
	log []string
}

func (p *fakeProcessor) ProcessRefund(_ context.Context, orderID, reason string) error {
	p.log = append(p.log, "refund:"+orderID+":"+reason)
	return nil
}

func (p *fakeProcessor) ProcessReturn(_ context.Context, orderID, reason string) error {
	p.log = append(p.log, "return:"+orderID+":"+reason)
	return nil
}
