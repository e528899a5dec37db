package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	app "github.com/waveline/microblog/internal/app"
	"github.com/waveline/microblog/internal/app/domain/account"
	"github.com/waveline/microblog/internal/app/domain/message"
	"github.com/waveline/microblog/internal/app/metrics"
	"github.com/waveline/microblog/internal/app/services"
	"github.com/waveline/microblog/internal/app/services/accounts"
	"github.com/waveline/microblog/internal/app/storage"
	"github.com/waveline/microblog/pkg/logger"
)

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app *app.Application
	log *logger.Logger
}

// NewHandler returns a mux exposing the REST API.
//
// Missing messages on GET and DELETE answer 200 with an empty body rather
// than 404; that is the published contract of this API and is kept as-is.
func NewHandler(application *app.Application, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	h := &handler{app: application, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("/register", h.register)
	mux.HandleFunc("/login", h.login)
	mux.HandleFunc("/messages", h.messages)
	mux.HandleFunc("/messages/", h.messageByID)
	mux.HandleFunc("/accounts/", h.accountResources)
	return mux
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var candidate account.Account
	if err := decodeJSON(r.Body, &candidate); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	acct, err := h.app.Accounts.Register(r.Context(), candidate)
	if err != nil {
		if !services.IsValidation(err) {
			h.log.WithError(err).Error("register account")
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}
	metrics.RecordAccountRegistered()
	writeJSON(w, http.StatusOK, acct)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var candidate account.Account
	if err := decodeJSON(r.Body, &candidate); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	acct, err := h.app.Accounts.Login(r.Context(), candidate)
	if err != nil {
		// Storage failures collapse into the unauthorized path after logging;
		// the caller only learns that no account matched.
		if !errors.Is(err, accounts.ErrUnauthorized) {
			h.log.WithError(err).Error("login lookup")
		}
		writeError(w, http.StatusUnauthorized, accounts.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (h *handler) messages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var candidate message.Message
		if err := decodeJSON(r.Body, &candidate); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		msg, err := h.app.Messages.Post(r.Context(), candidate)
		if err != nil {
			if !services.IsValidation(err) {
				h.log.WithError(err).Error("post message")
			}
			writeError(w, http.StatusBadRequest, err)
			return
		}
		metrics.RecordMessagePosted()
		writeJSON(w, http.StatusOK, msg)

	case http.MethodGet:
		msgs, err := h.app.Messages.GetAll(r.Context())
		if err != nil {
			h.log.WithError(err).Error("list messages")
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, msgs)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) messageByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/messages/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		msg, err := h.app.Messages.GetByID(r.Context(), id)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				h.log.WithError(err).Error("get message")
			}
			w.WriteHeader(http.StatusOK)
			return
		}
		writeJSON(w, http.StatusOK, msg)

	case http.MethodPatch:
		var payload struct {
			Text string `json:"message_text"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		msg, err := h.app.Messages.PatchText(r.Context(), id, payload.Text)
		if err != nil {
			if !services.IsValidation(err) {
				h.log.WithError(err).Error("patch message")
			}
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, msg)

	case http.MethodDelete:
		msg, err := h.app.Messages.Remove(r.Context(), id)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				h.log.WithError(err).Error("delete message")
			}
			w.WriteHeader(http.StatusOK)
			return
		}
		metrics.RecordMessageDeleted()
		writeJSON(w, http.StatusOK, msg)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) accountResources(w http.ResponseWriter, r *http.Request) {
	trimmed := strings.Trim(strings.TrimPrefix(r.URL.Path, "/accounts"), "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || parts[1] != "messages" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	accountID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("account_id must be an integer"))
		return
	}

	msgs, err := h.app.Messages.GetByAuthor(r.Context(), accountID)
	if err != nil {
		h.log.WithError(err).Error("list messages by author")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func pathID(path, prefix string) (int64, error) {
	raw := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("message_id must be an integer")
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

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
