package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kisanbazar/kisanbazar-backend/api/responses"
	"github.com/kisanbazar/kisanbazar-backend/api/validators"
	internalmessages "github.com/kisanbazar/kisanbazar-backend/internal/messages"
	"github.com/kisanbazar/kisanbazar-backend/pkg/logger"
)

func SendMessage(svc internalmessages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		senderID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req internalmessages.SendMessageRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.Send(r.Context(), senderID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}

// ListConversations returns one row per counterpart the caller has messaged
// with, newest conversation first.
func ListConversations(svc internalmessages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conversations, err := svc.Conversations(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, conversations, len(conversations))
	}
}

// GetThread returns the full chronological exchange with one counterpart.
func GetThread(svc internalmessages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		counterpartID, err := validators.ParsePathUUID(chi.URLParam(r, "userId"), "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		thread, err := svc.Thread(r.Context(), userID, counterpartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, thread, len(thread))
	}
}

// MarkThreadRead flips every unread inbound message from the counterpart.
// Calling it again is a no-op.
func MarkThreadRead(svc internalmessages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		counterpartID, err := validators.ParsePathUUID(chi.URLParam(r, "userId"), "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.MarkAsRead(r.Context(), userID, counterpartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "messages marked as read")
	}
}
