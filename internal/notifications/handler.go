package notifications

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// Handler serves GET /api/v1/notifications.
type Handler struct {
	store *Store
}

// NewHandler constructs a handler.
func NewHandler(store *Store) (*Handler, error) {
	if store == nil {
		return nil, errors.New("notifications handler: nil store")
	}
	return &Handler{store: store}, nil
}

// ServeHTTP lists notifications for one asset.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	assetID := r.URL.Query().Get("assetId")
	if assetID == "" {
		http.Error(w, "assetId is required", http.StatusBadRequest)
		return
	}
	if _, err := uuid.Parse(assetID); err != nil {
		http.Error(w, "assetId must be a guid", http.StatusBadRequest)
		return
	}

	list, err := h.store.ListByAsset(r.Context(), assetID)
	if err != nil {
		http.Error(w, "query notifications error", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Notification{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}
