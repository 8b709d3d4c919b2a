package settings

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Handler serves GET /api/v1/settings.
type Handler struct {
	store *Store
}

// NewHandler constructs a handler.
func NewHandler(store *Store) (*Handler, error) {
	if store == nil {
		return nil, errors.New("settings handler: nil store")
	}
	return &Handler{store: store}, nil
}

// ServeHTTP returns one system parameter by key.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "key is required", http.StatusBadRequest)
		return
	}

	value, err := h.store.Get(r.Context(), key)
	if err != nil {
		http.Error(w, "query setting error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"key": key, "value": value})
}
