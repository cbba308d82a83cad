package handlers_test

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/repos"
)

func TestAdminGuardRequiresAdminRole(t *testing.T) {
	e := newEnv(t)
	logs := captureLogs(t)

	anon := e.browser(t)
	resp, _ := anon.do("GET", "/admin/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	buyer := e.browser(t)
	buyer.login("marcus")
	resp, body := buyer.do("GET", "/admin/orders", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decode[envelope](t, body).Error.Code)
	resp, _ = buyer.do("PUT", "/admin/site-config", map[string]any{"key": "nav_items", "value": []any{}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	assert.True(t, hasAction(logs(), "access.denied.admin"))

	for _, name := range []string{"admin", "Murat"} {
		staff := e.browser(t)
		staff.login(name)
		resp, body = staff.do("GET", "/admin/dashboard", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		dash := decode[struct {
			ProductCount int `json:"productCount"`
		}](t, body)
		assert.Equal(t, 4, dash.ProductCount)
	}
}

func TestAdminOrderStatusUnguarded(t *testing.T) {
	e := newEnv(t)
	logs := captureLogs(t)
	o, err := repos.NewOrderRepo(e.db).Create(domain.NewOrder{
		Username: "marcus", DisplayName: "marcus", SenderCharacter: "Marcus Vance",
		FullName: "Elena Kostic", Address: "Vinewood Blvd 1", Phone: "555-0100",
		Items:         []domain.LineItem{{ProductID: "p-cap", Name: "Snapback Cap", Price: decimal.RequireFromString("15.50")}},
		Total:         decimal.RequireFromString("15.50"),
		PaymentMethod: domain.PaymentBankTransfer,
	})
	require.NoError(t, err)

	admin := e.browser(t)
	admin.login("admin")

	for _, st := range []domain.OrderStatus{domain.StatusDelivered, domain.StatusPreparing, domain.StatusCancelled} {
		resp, body := admin.do("PUT", "/admin/orders/"+o.ID+"/status", map[string]string{"status": string(st)})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		assert.Equal(t, st, decode[domain.Order](t, body).Status)
	}
	assert.True(t, hasAction(logs(), "admin.orders.update"))

	resp, body := admin.do("PUT", "/admin/orders/"+o.ID+"/status", map[string]string{"status": "Lost"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", decode[envelope](t, body).Error.Code)

	resp, _ = admin.do("PUT", "/admin/orders/missing-id/status", map[string]string{"status": string(domain.StatusShipped)})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = admin.do("GET", "/admin/orders", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	orders := decode[[]domain.Order](t, body)
	require.Len(t, orders, 1)
	assert.Equal(t, domain.StatusCancelled, orders[0].Status)
}

func TestAdminProductsAndContent(t *testing.T) {
	e := newEnv(t)
	admin := e.browser(t)
	admin.login("Murat")

	resp, body := admin.do("POST", "/admin/products", map[string]any{
		"name": "Bandana", "price": "7.50", "category": "Aksesuar",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	p := decode[domain.Product](t, body)
	require.NotEmpty(t, p.ID)

	resp, body = admin.do("POST", "/admin/products", map[string]any{"name": "Bad", "price": -1, "category": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[envelope](t, body).Error.Details, "price")

	resp, _ = admin.do("POST", "/admin/products", map[string]any{"id": "chosen", "name": "Bad", "price": 1, "category": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "ids are server assigned")

	resp, body = admin.do("PUT", "/admin/products/"+p.ID, map[string]any{"price": "9.00"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	updated := decode[domain.Product](t, body)
	assert.Equal(t, "9.00", updated.Price.StringFixed(2))
	assert.Equal(t, "Bandana", updated.Name)

	resp, _ = admin.do("DELETE", "/admin/products/"+p.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = admin.do("GET", "/api/products/"+p.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = admin.do("PUT", "/admin/site-config", map[string]any{
		"key": "nav_items", "value": []map[string]string{{"label": "SALE", "href": "/sale"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	_, body = e.browser(t).do("GET", "/api/site-config?keys=nav_items", nil)
	content := decode[map[string][]domain.NavItem](t, body)
	require.Len(t, content["nav_items"], 1)
	assert.Equal(t, "SALE", content["nav_items"][0].Label)
}
