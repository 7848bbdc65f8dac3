// Package httpapi provides the HTTP surface of the durable store
// backend: method routing, CORS handling, and wire encoding over the
// per-customer unit registry.
package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/emergingtrends/clipsync/internal/backend/unit"
	"github.com/emergingtrends/clipsync/internal/logging"
	"github.com/emergingtrends/clipsync/internal/models"
)

// defaultCustomerID is used when the customer_id query parameter is
// absent.
const defaultCustomerID = "default"

// Handler serves the clipboard item endpoint.
type Handler struct {
	units *unit.Registry
}

// NewHandler creates a Handler over the given unit registry.
func NewHandler(units *unit.Registry) *Handler {
	return &Handler{units: units}
}

// setCORSHeaders writes the permissive CORS headers carried by every
// response.
func setCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, PUT, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

// ServeHTTP routes one request to the customer's durable unit.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		customerID = defaultCustomerID
	}

	requestID := uuid.New().String()
	logging.Debug("request received", map[string]interface{}{
		"request_id":  requestID,
		"method":      r.Method,
		"customer_id": customerID,
	})

	var err error
	switch r.Method {
	case http.MethodPut:
		err = h.handlePut(w, r, customerID)
	case http.MethodGet:
		err = h.handleGet(w, r, customerID)
	case http.MethodDelete:
		err = h.handleDelete(w, r, customerID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Any unhandled failure becomes a generic server error carrying
	// the message; nothing is retried here.
	if err != nil {
		logging.Error("request failed", err, map[string]interface{}{
			"request_id":  requestID,
			"method":      r.Method,
			"customer_id": customerID,
		})
		http.Error(w, "Error: "+err.Error(), http.StatusInternalServerError)
	}
}

// handlePut upserts one item into the customer's collection.
func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request, customerID string) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}

	var wire models.WireItem
	if err := json.Unmarshal(body, &wire); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}

	if _, err := h.units.Upsert(r.Context(), customerID, models.FromWire(wire)); err != nil {
		return err
	}

	io.WriteString(w, "Data synced successfully")
	return nil
}

// handleGet lists the customer's collection, id descending.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, customerID string) error {
	items, err := h.units.List(r.Context(), customerID)
	if err != nil {
		return err
	}

	wire := make([]models.WireItem, 0, len(items))
	for _, item := range items {
		wire = append(wire, item.ToWire())
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(wire)
}

// handleDelete removes one item by id. A missing or non-numeric id is
// rejected before any unit work happens.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request, customerID string) error {
	var body struct {
		ID *int64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ID == nil {
		http.Error(w, "Missing or invalid id in JSON body", http.StatusBadRequest)
		return nil
	}

	if err := h.units.Delete(r.Context(), customerID, *body.ID); err != nil {
		return err
	}

	io.WriteString(w, "Data deleted successfully")
	return nil
}

// HealthHandler reports backend liveness.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok","service":"clipsyncd"}`))
}
