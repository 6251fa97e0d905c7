// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/shopit/internal/platform/middleware"
	requestutil "github.com/taibuivan/shopit/internal/platform/request"
	"github.com/taibuivan/shopit/internal/platform/respond"
	"github.com/taibuivan/shopit/internal/platform/sec"
	"github.com/taibuivan/shopit/internal/users/auth"
)

// Handler implements the administrator HTTP endpoints.
type Handler struct {
	adminService *Service
}

// NewHandler constructs a new admin [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{adminService: service}
}

// Routes returns a [chi.Router] with the user management endpoints, meant to
// be mounted at /admin.
//
// # Endpoints
//   - GET    /users     : Lists all users.
//   - GET    /user/{id} : Shows one user.
//   - PUT    /user/{id} : Edits name, email and role.
//   - DELETE /user/{id} : Deletes the user.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin), handler.requireStoredAdmin)

	router.Get("/users", handler.listUsers)
	router.Get("/user/{id}", handler.getUser)
	router.Put("/user/{id}", handler.updateUser)
	router.Delete("/user/{id}", handler.deleteUser)

	return router
}

// requireStoredAdmin rejects callers whose account was deleted or demoted
// after their token was issued. Mounted after [middleware.RequireRole].
func (handler *Handler) requireStoredAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		callerID, err := requestutil.RequiredUserID(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		if err := handler.adminService.AuthorizeCaller(request.Context(), callerID); err != nil {
			respond.Error(writer, request, err)
			return
		}

		next.ServeHTTP(writer, request)
	})
}

/*
GET /api/v1/admin/users.

Response:
  - 200: {success, users, count}
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	users, err := handler.adminService.ListUsers(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Fields{
		auth.FieldUsers: users,
		auth.FieldCount: len(users),
	})
}

/*
GET /api/v1/admin/user/{id}.

Response:
  - 200: {success, user}
  - 404: NOT_FOUND
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.adminService.GetUser(request.Context(), requestutil.Param(request, ParamID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Fields{auth.FieldUser: user})
}

type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

/*
PUT /api/v1/admin/user/{id}.

Response:
  - 200: {success, user}
  - 400: VALIDATION_ERROR
  - 404: NOT_FOUND
  - 409: CONFLICT
*/
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	var input updateUserRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.adminService.UpdateUser(request.Context(), requestutil.Param(request, ParamID), UpdateUserInput{
		Name:  input.Name,
		Email: input.Email,
		Role:  input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Fields{auth.FieldUser: user})
}

/*
DELETE /api/v1/admin/user/{id}.

Response:
  - 200: {success}
  - 404: NOT_FOUND
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	if err := handler.adminService.DeleteUser(request.Context(), requestutil.Param(request, ParamID)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil)
}
