// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/shopit/internal/platform/middleware"
	requestutil "github.com/taibuivan/shopit/internal/platform/request"
	"github.com/taibuivan/shopit/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the identity entry points (Registration, Login,
// Password recovery) and the Logout exit point.
type Handler struct {
	authService   *Service
	sessions      SessionWriter
	publicBaseURL string
}

// NewHandler constructs a new [Handler].
//
// publicBaseURL overrides the origin used in emailed links; when empty it is
// derived from each request.
func NewHandler(service *Service, sessions SessionWriter, publicBaseURL string) *Handler {
	return &Handler{authService: service, sessions: sessions, publicBaseURL: publicBaseURL}
}

// RegisterRoutes attaches the authentication routes to router.
//
// # Endpoints
//   - POST /register               : Creates a new account.
//   - POST /login                  : Authenticates and returns a JWT.
//   - POST /password/forgot        : Emails a reset link.
//   - PUT  /password/reset/{token} : Sets a new password from a reset link.
//   - GET  /logout                 : Invalidates the presented JWT.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/password/forgot", handler.forgotPassword)
	router.Put("/password/reset/{token}", handler.resetPassword)

	router.With(middleware.RequireAuth).Get("/logout", handler.logout)
}

// # Request Payloads

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/register

Request:
  - Body: registerRequest (Name, Email, Password)

Response:
  - 200: {success, token, user}
  - 400: VALIDATION_ERROR
  - 409: CONFLICT: Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.sessions.Send(writer, session)
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/login

Response:
  - 200: {success, token, user}
  - 400: VALIDATION_ERROR: Missing email or password
  - 401: AUTH_ERROR: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.sessions.Send(writer, session)
}

/*
Logout terminates the current credential.

GET /api/v1/logout

Response:
  - 200: {success, message: "Logged out"}
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), claims); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.sessions.Clear(writer)
	respond.Message(writer, MsgLoggedOut)
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/v1/password/forgot

Response:
  - 200: {success, message: "Email send to <email>"}
  - 404: NOT_FOUND: No account with this email
  - 500: MAIL_ERROR: Delivery failed, the reset was withdrawn
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	baseURL := requestutil.BaseURL(request, handler.publicBaseURL)
	recipient, err := handler.authService.ForgotPassword(request.Context(), input.Email, baseURL)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, fmt.Sprintf(MsgEmailSent, recipient))
}

/*
ResetPassword completes the password recovery flow.

PUT /api/v1/password/reset/{token}

Response:
  - 200: {success, token, user}
  - 400: VALIDATION_ERROR: Bad or expired token, mismatch, weak password
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.ResetPassword(request.Context(), ResetInput{
		Token:           requestutil.Param(request, FieldToken),
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.sessions.Send(writer, session)
}
