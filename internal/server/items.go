package server

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/louisbranch/taskboard/internal/platform/errors"
	"github.com/louisbranch/taskboard/internal/server/httpx"
	"github.com/louisbranch/taskboard/internal/storage"
)

type itemPayload struct {
	Name string `json:"name"`
}

func (h handlers) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.ListItems(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if items == nil {
		items = []storage.Item{}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h handlers) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var payload itemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.WriteError(w, apperrors.E(apperrors.KindInvalidInput, "invalid request body"))
		return
	}
	item, err := h.items.CreateItem(r.Context(), payload.Name)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, item)
}

func (h handlers) handleGetItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	item, err := h.items.GetItem(r.Context(), itemID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, item)
}

func (h handlers) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	var payload itemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.WriteError(w, apperrors.E(apperrors.KindInvalidInput, "invalid request body"))
		return
	}
	item, err := h.items.UpdateItem(r.Context(), itemID, payload.Name)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, item)
}

func (h handlers) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := h.items.DeleteItem(r.Context(), itemID); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
