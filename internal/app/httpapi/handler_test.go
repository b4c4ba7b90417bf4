package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	app "github.com/bizledger/billingd/internal/app"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	application := app.New(app.Stores{}, nil)
	return NewHandler(application, nil)
}

func marshal(v any) *bytes.Reader {
	data, _ := json.Marshal(v)
	return bytes.NewReader(data)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, marshal(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response: %v (%s)", err, resp.Body.String())
	}
	return out
}

func TestCompanyLifecycle(t *testing.T) {
	h := newTestHandler(t)

	resp := doJSON(t, h, http.MethodPost, "/companies", map[string]any{
		"name":        "Acme & Sons, Inc.",
		"description": "Widgets",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 create, got %d: %s", resp.Code, resp.Body.String())
	}
	created := decodeBody(t, resp)["company"].(map[string]any)
	if created["code"] != "acmesonsinc" {
		t.Fatalf("expected derived code acmesonsinc, got %v", created["code"])
	}

	resp = doJSON(t, h, http.MethodGet, "/companies", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 list, got %d", resp.Code)
	}
	list := decodeBody(t, resp)["companies"].([]any)
	if len(list) != 1 {
		t.Fatalf("expected 1 company, got %d", len(list))
	}
	summary := list[0].(map[string]any)
	if summary["code"] != "acmesonsinc" || summary["name"] != "Acme & Sons, Inc." {
		t.Fatalf("unexpected summary %v", summary)
	}
	if _, present := summary["description"]; present {
		t.Fatalf("list entries must not carry description, got %v", summary)
	}

	resp = doJSON(t, h, http.MethodGet, "/companies/acmesonsinc", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 get, got %d", resp.Code)
	}
	detail := decodeBody(t, resp)["company"].(map[string]any)
	if invs := detail["invoices"].([]any); len(invs) != 0 {
		t.Fatalf("expected empty invoices, got %v", invs)
	}
	if inds := detail["industries"].([]any); len(inds) != 0 {
		t.Fatalf("expected empty industries, got %v", inds)
	}

	resp = doJSON(t, h, http.MethodPut, "/companies/acmesonsinc", map[string]any{
		"name":        "Acme Holdings",
		"description": "More widgets",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 update, got %d: %s", resp.Code, resp.Body.String())
	}
	updated := decodeBody(t, resp)["company"].(map[string]any)
	if updated["name"] != "Acme Holdings" || updated["code"] != "acmesonsinc" {
		t.Fatalf("unexpected updated company %v", updated)
	}

	resp = doJSON(t, h, http.MethodDelete, "/companies/acmesonsinc", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 delete, got %d", resp.Code)
	}
	if status := decodeBody(t, resp)["status"]; status != "deleted" {
		t.Fatalf("expected deleted status, got %v", status)
	}

	resp = doJSON(t, h, http.MethodGet, "/companies/acmesonsinc", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}

func TestCompanyErrors(t *testing.T) {
	h := newTestHandler(t)

	resp := doJSON(t, h, http.MethodPost, "/companies", map[string]any{"code": "acme", "name": "Acme"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	resp = doJSON(t, h, http.MethodPost, "/companies", map[string]any{"code": "acme", "name": "Other"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 duplicate, got %d", resp.Code)
	}
	errBody := decodeBody(t, resp)["error"].(map[string]any)
	if errBody["status"] != float64(http.StatusConflict) {
		t.Fatalf("error envelope must repeat the status, got %v", errBody)
	}
	if errBody["message"] == "" {
		t.Fatalf("error envelope must carry a message")
	}

	resp = doJSON(t, h, http.MethodPost, "/companies", map[string]any{"code": "noname"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 missing name, got %d", resp.Code)
	}

	resp = doJSON(t, h, http.MethodPut, "/companies/ghost", map[string]any{"name": "Ghost"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 update unknown, got %d", resp.Code)
	}

	resp = doJSON(t, h, http.MethodDelete, "/companies/ghost", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 delete unknown, got %d", resp.Code)
	}

	resp = doJSON(t, h, http.MethodPost, "/companies", map[string]any{"name": "X", "bogus": true})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", resp.Code)
	}
}

func TestInvoiceLifecycle(t *testing.T) {
	h := newTestHandler(t)

	doJSON(t, h, http.MethodPost, "/companies", map[string]any{"code": "acme", "name": "Acme", "description": "Widgets"})

	resp := doJSON(t, h, http.MethodPost, "/invoices", map[string]any{"comp_code": "acme", "amt": 125.5})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 create invoice, got %d: %s", resp.Code, resp.Body.String())
	}
	created := decodeBody(t, resp)["invoice"].(map[string]any)
	if created["paid"] != false || created["paid_date"] != nil {
		t.Fatalf("new invoice must be unpaid, got %v", created)
	}
	id := int64(created["id"].(float64))
	if id == 0 {
		t.Fatalf("expected assigned id, got %v", created)
	}

	resp = doJSON(t, h, http.MethodGet, "/invoices", nil)
	list := decodeBody(t, resp)["invoices"].([]any)
	if len(list) != 1 {
		t.Fatalf("expected 1 invoice, got %d", len(list))
	}
	ref := list[0].(map[string]any)
	if ref["comp_code"] != "acme" {
		t.Fatalf("unexpected invoice ref %v", ref)
	}
	if _, present := ref["amt"]; present {
		t.Fatalf("list entries must not carry amt, got %v", ref)
	}

	path := "/invoices/" + jsonNumber(id)
	resp = doJSON(t, h, http.MethodGet, path, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 get invoice, got %d", resp.Code)
	}
	detail := decodeBody(t, resp)["invoice"].(map[string]any)
	comp, ok := detail["company"].(map[string]any)
	if !ok || comp["code"] != "acme" || comp["name"] != "Acme" {
		t.Fatalf("expected embedded company, got %v", detail)
	}
	if _, present := detail["comp_code"]; present {
		t.Fatalf("detail replaces comp_code with company object, got %v", detail)
	}

	resp = doJSON(t, h, http.MethodPost, path, map[string]any{"amt": 200})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 update amount, got %d", resp.Code)
	}
	updated := decodeBody(t, resp)["invoice"].(map[string]any)
	if updated["amt"] != float64(200) {
		t.Fatalf("expected amt 200, got %v", updated["amt"])
	}

	resp = doJSON(t, h, http.MethodPut, path, map[string]any{"amt": 250})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected PUT update to work too, got %d", resp.Code)
	}

	resp = doJSON(t, h, http.MethodDelete, path, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 delete, got %d", resp.Code)
	}
	if status := decodeBody(t, resp)["status"]; status != "deleted" {
		t.Fatalf("expected deleted status, got %v", status)
	}

	resp = doJSON(t, h, http.MethodGet, path, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}

func TestInvoiceErrors(t *testing.T) {
	h := newTestHandler(t)

	resp := doJSON(t, h, http.MethodPost, "/invoices", map[string]any{"comp_code": "ghost", "amt": 10})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown company, got %d", resp.Code)
	}

	resp = doJSON(t, h, http.MethodGet, "/invoices/abc", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", resp.Code)
	}

	resp = doJSON(t, h, http.MethodGet, "/invoices/99", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", resp.Code)
	}
}

func TestIndustryLifecycle(t *testing.T) {
	h := newTestHandler(t)

	doJSON(t, h, http.MethodPost, "/companies", map[string]any{"code": "ibm", "name": "IBM"})
	doJSON(t, h, http.MethodPost, "/companies", map[string]any{"code": "acme", "name": "Acme"})

	resp := doJSON(t, h, http.MethodPost, "/industries", map[string]any{"industry": "Technology"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 create industry, got %d: %s", resp.Code, resp.Body.String())
	}
	entry := decodeBody(t, resp)["entry"].(map[string]any)
	if entry["code"] != "technology" || entry["industry"] != "Technology" {
		t.Fatalf("unexpected entry %v", entry)
	}

	resp = doJSON(t, h, http.MethodPut, "/industries/technology", map[string]any{"company_code": "ibm"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 link, got %d: %s", resp.Code, resp.Body.String())
	}
	link := decodeBody(t, resp)["company_industry"].(map[string]any)
	if link["comp_code"] != "ibm" || link["ind_code"] != "technology" {
		t.Fatalf("unexpected link %v", link)
	}

	doJSON(t, h, http.MethodPut, "/industries/technology", map[string]any{"company_code": "acme"})

	resp = doJSON(t, h, http.MethodGet, "/industries", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 list industries, got %d", resp.Code)
	}
	groups := decodeBody(t, resp)["industries"].(map[string]any)
	tech, ok := groups["Technology"].(map[string]any)
	if !ok {
		t.Fatalf("expected Technology group, got %v", groups)
	}
	members := tech["companies"].([]any)
	if len(members) != 2 || members[0] != "ibm" || members[1] != "acme" {
		t.Fatalf("unexpected members %v", members)
	}

	compResp := doJSON(t, h, http.MethodGet, "/companies/ibm", nil)
	detail := decodeBody(t, compResp)["company"].(map[string]any)
	inds := detail["industries"].([]any)
	if len(inds) != 1 || inds[0] != "Technology" {
		t.Fatalf("expected company detail to list industry names, got %v", inds)
	}
}

func TestIndustryErrors(t *testing.T) {
	h := newTestHandler(t)

	doJSON(t, h, http.MethodPost, "/companies", map[string]any{"code": "ibm", "name": "IBM"})
	doJSON(t, h, http.MethodPost, "/industries", map[string]any{"industry": "Technology"})

	resp := doJSON(t, h, http.MethodPost, "/industries", map[string]any{"code": "x"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 missing industry name, got %d", resp.Code)
	}

	resp = doJSON(t, h, http.MethodPost, "/industries", map[string]any{"industry": "Technology"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 duplicate industry, got %d", resp.Code)
	}

	resp = doJSON(t, h, http.MethodPut, "/industries/technology", map[string]any{"company_code": ""})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 empty company code, got %d", resp.Code)
	}

	resp = doJSON(t, h, http.MethodPut, "/industries/ghost", map[string]any{"company_code": "ibm"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 unknown industry, got %d", resp.Code)
	}

	resp = doJSON(t, h, http.MethodPut, "/industries/technology", map[string]any{"company_code": "ghost"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 unknown company, got %d", resp.Code)
	}

	doJSON(t, h, http.MethodPut, "/industries/technology", map[string]any{"company_code": "ibm"})
	resp = doJSON(t, h, http.MethodPut, "/industries/technology", map[string]any{"company_code": "ibm"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 duplicate link, got %d", resp.Code)
	}
}

func TestCompanyDeleteCascades(t *testing.T) {
	h := newTestHandler(t)

	doJSON(t, h, http.MethodPost, "/companies", map[string]any{"code": "acme", "name": "Acme"})
	resp := doJSON(t, h, http.MethodPost, "/invoices", map[string]any{"comp_code": "acme", "amt": 42})
	created := decodeBody(t, resp)["invoice"].(map[string]any)
	id := jsonNumber(int64(created["id"].(float64)))

	resp = doJSON(t, h, http.MethodDelete, "/companies/acme", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 delete company, got %d", resp.Code)
	}

	resp = doJSON(t, h, http.MethodGet, "/invoices/"+id, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected invoice gone after company delete, got %d", resp.Code)
	}
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t)

	resp := doJSON(t, h, http.MethodGet, "/healthz", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 healthz, got %d", resp.Code)
	}
	if status := decodeBody(t, resp)["status"]; status != "ok" {
		t.Fatalf("expected ok status, got %v", status)
	}
}

func jsonNumber(id int64) string {
	data, _ := json.Marshal(id)
	return string(data)
}
