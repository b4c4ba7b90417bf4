// Package httpapi exposes the billing REST API over HTTP/JSON.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	app "github.com/bizledger/billingd/internal/app"
	"github.com/bizledger/billingd/internal/app/metrics"
	apperr "github.com/bizledger/billingd/internal/errors"
	"github.com/bizledger/billingd/pkg/logger"
)

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app *app.Application
	log *logger.Logger
}

// NewHandler returns a router exposing the core REST API.
func NewHandler(application *app.Application, log *logger.Logger) *mux.Router {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	h := &handler{app: application, log: log}

	r := mux.NewRouter()

	r.HandleFunc("/companies", h.listCompanies).Methods(http.MethodGet)
	r.HandleFunc("/companies", h.createCompany).Methods(http.MethodPost)
	r.HandleFunc("/companies/{code}", h.getCompany).Methods(http.MethodGet)
	r.HandleFunc("/companies/{code}", h.updateCompany).Methods(http.MethodPut)
	r.HandleFunc("/companies/{code}", h.deleteCompany).Methods(http.MethodDelete)

	r.HandleFunc("/invoices", h.listInvoices).Methods(http.MethodGet)
	r.HandleFunc("/invoices", h.createInvoice).Methods(http.MethodPost)
	r.HandleFunc("/invoices/{id}", h.getInvoice).Methods(http.MethodGet)
	// Updates arrive on POST for compatibility with existing clients; PUT is
	// the corrected verb.
	r.HandleFunc("/invoices/{id}", h.updateInvoice).Methods(http.MethodPost, http.MethodPut)
	r.HandleFunc("/invoices/{id}", h.deleteInvoice).Methods(http.MethodDelete)

	r.HandleFunc("/industries", h.listIndustries).Methods(http.MethodGet)
	r.HandleFunc("/industries", h.createIndustry).Methods(http.MethodPost)
	r.HandleFunc("/industries/{industry_code}", h.linkIndustry).Methods(http.MethodPut)

	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	return r
}

// --- companies --------------------------------------------------------------

func (h *handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Companies.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"companies": list})
}

func (h *handler) getCompany(w http.ResponseWriter, r *http.Request) {
	detail, err := h.app.Companies.Get(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"company": detail})
}

func (h *handler) createCompany(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Code        string `json:"code"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		h.writeError(w, apperr.BadRequest("invalid request body"))
		return
	}

	created, err := h.app.Companies.Create(r.Context(), payload.Code, payload.Name, payload.Description)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"company": created})
}

func (h *handler) updateCompany(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		h.writeError(w, apperr.BadRequest("invalid request body"))
		return
	}

	updated, err := h.app.Companies.Update(r.Context(), mux.Vars(r)["code"], payload.Name, payload.Description)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"company": updated})
}

func (h *handler) deleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Companies.Delete(r.Context(), mux.Vars(r)["code"]); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// --- invoices ---------------------------------------------------------------

func (h *handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	list, err := h.app.Invoices.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"invoices": list})
}

func (h *handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := invoiceID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	detail, err := h.app.Invoices.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"invoice": detail})
}

func (h *handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CompCode string  `json:"comp_code"`
		Amt      float64 `json:"amt"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		h.writeError(w, apperr.BadRequest("invalid request body"))
		return
	}

	created, err := h.app.Invoices.Create(r.Context(), payload.CompCode, payload.Amt)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"invoice": created})
}

func (h *handler) updateInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := invoiceID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var payload struct {
		Amt float64 `json:"amt"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		h.writeError(w, apperr.BadRequest("invalid request body"))
		return
	}

	updated, err := h.app.Invoices.UpdateAmount(r.Context(), id, payload.Amt)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"invoice": updated})
}

func (h *handler) deleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := invoiceID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.app.Invoices.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// --- industries -------------------------------------------------------------

func (h *handler) listIndustries(w http.ResponseWriter, r *http.Request) {
	groups, err := h.app.Industries.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"industries": groups})
}

func (h *handler) createIndustry(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Code     string `json:"code"`
		Industry string `json:"industry"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		h.writeError(w, apperr.BadRequest("invalid request body"))
		return
	}

	created, err := h.app.Industries.Create(r.Context(), payload.Code, payload.Industry)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"entry": created})
}

func (h *handler) linkIndustry(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CompanyCode string `json:"company_code"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		h.writeError(w, apperr.BadRequest("invalid request body"))
		return
	}

	link, err := h.app.Industries.Link(r.Context(), payload.CompanyCode, mux.Vars(r)["industry_code"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"company_industry": link})
}

// --- plumbing ---------------------------------------------------------------

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func invoiceID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.BadRequest("invoice id must be numeric, got %q", raw)
	}
	return id, nil
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError funnels every failure through the taxonomy: tagged variants
// render their own status and message, anything else becomes a generic 500
// with the cause kept server-side.
func (h *handler) writeError(w http.ResponseWriter, err error) {
	se := apperr.GetServiceError(err)
	if se == nil {
		h.log.WithError(err).Error("unhandled error")
		se = apperr.Internal("internal server error", nil)
	} else if se.HTTPStatus == http.StatusInternalServerError {
		h.log.WithError(err).Error("internal error")
		se = apperr.Internal("internal server error", nil)
	}

	writeJSON(w, se.HTTPStatus, map[string]any{
		"error": map[string]any{
			"message": se.Message,
			"status":  se.HTTPStatus,
		},
	})
}
