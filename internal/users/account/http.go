// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/shopit/internal/platform/middleware"
	requestutil "github.com/taibuivan/shopit/internal/platform/request"
	"github.com/taibuivan/shopit/internal/platform/respond"
	"github.com/taibuivan/shopit/internal/users/auth"
)

// Handler implements the HTTP layer for self-service account management.
type Handler struct {
	accountService *Service
	sessions       auth.SessionWriter
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, sessions auth.SessionWriter) *Handler {
	return &Handler{accountService: service, sessions: sessions}
}

// RegisterRoutes attaches the account routes to router. All of them require
// an authenticated caller.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/me", handler.getMe)
		r.Put("/me/update", handler.updateMe)
		r.Put("/password/update", handler.updatePassword)
	})
}

/*
GET /api/v1/me.

Response:
  - 200: {success, user}
  - 401: AUTH_ERROR: Authentication required
  - 404: NOT_FOUND: The account no longer exists
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Fields{auth.FieldUser: user})
}

// updateMeRequest defines the expected JSON payload for profile updates.
type updateMeRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

/*
PUT /api/v1/me/update.

Request:
  - body: updateMeRequest (absent fields stay unchanged)

Response:
  - 200: {success, user}
  - 400: VALIDATION_ERROR
  - 409: CONFLICT: Email taken by another account
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		Name:  input.Name,
		Email: input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Fields{auth.FieldUser: user})
}

type updatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	Password    string `json:"password"`
}

/*
PUT /api/v1/password/update.

Response:
  - 200: {success, token, user}
  - 400: AUTH_ERROR: Old password is incorrect
*/
func (handler *Handler) updatePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updatePasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.accountService.UpdatePassword(request.Context(), userID, UpdatePasswordInput{
		OldPassword: input.OldPassword,
		Password:    input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.sessions.Send(writer, session)
}
