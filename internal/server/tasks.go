package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	apperrors "github.com/louisbranch/taskboard/internal/platform/errors"
	"github.com/louisbranch/taskboard/internal/server/httpx"
	"github.com/louisbranch/taskboard/internal/storage"
)

func (h handlers) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.ListTasks(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if tasks == nil {
		tasks = []storage.Task{}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (h handlers) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var draft storage.TaskDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		httpx.WriteError(w, apperrors.E(apperrors.KindInvalidInput, "invalid request body"))
		return
	}
	task, err := h.tasks.CreateTask(r.Context(), draft)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, task)
}

func (h handlers) handleGetTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	task, err := h.tasks.GetTask(r.Context(), taskID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, task)
}

func (h handlers) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	var patch storage.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httpx.WriteError(w, apperrors.E(apperrors.KindInvalidInput, "invalid request body"))
		return
	}
	task, err := h.tasks.UpdateTask(r.Context(), taskID, patch)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, task)
}

func (h handlers) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := h.tasks.DeleteTask(r.Context(), taskID); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h handlers) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if users == nil {
		users = []storage.User{}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

// pathID parses a numeric path segment into an identifier.
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.E(apperrors.KindInvalidInput, fmt.Sprintf("invalid %s %q", name, raw))
	}
	return id, nil
}
