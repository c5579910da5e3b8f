// Package apperr defines the closed set of failure conditions the service
// can surface to callers. Every condition has a stable name, a fixed
// human-readable message and a fixed HTTP status code, looked up from a
// static table. Orchestration code returns these values directly; nothing
// is wrapped or retried, the first failure wins.
package apperr

import "net/http"

// Error is one named failure condition.
type Error struct {
	Name    string
	Message string
	Status  int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

var (
	AuthFailed        = &Error{Name: "AUTH_FAILED", Message: "Authentication failed !", Status: http.StatusNotFound}
	Default           = &Error{Name: "DEFAULT", Message: "An Error occurred !", Status: http.StatusInternalServerError}
	UserNotFound      = &Error{Name: "USER_NOT_FOUND", Message: "User not found !", Status: http.StatusBadRequest}
	AlreadyLoggedIn   = &Error{Name: "ALREADY_LOGGED_IN", Message: "Already logged in !", Status: http.StatusInternalServerError}
	UserOrEmailExists = &Error{Name: "USER_OR_EMAIL_EXISTS", Message: "User or email already exists !", Status: http.StatusBadRequest}
	PasswordMismatch  = &Error{Name: "PASSWORD_MISMATCH", Message: "Please check your password and try again", Status: http.StatusNotFound}
	TokenExpired      = &Error{Name: "TOKEN_EXPIRED", Message: "No valid token or token expired", Status: http.StatusNotFound}
	LogoutError       = &Error{Name: "LOGOUT_ERROR", Message: "Only Chuck Norris is able to logout without being logged in before", Status: http.StatusNotFound}
	InvalidEmail      = &Error{Name: "INVALID_EMAIL", Message: "Please provide a valid email address", Status: http.StatusBadRequest}
	InvalidPass       = &Error{Name: "INVALID_PASS", Message: "Password must be at least 5 characters long", Status: http.StatusBadRequest}
	MissingValidation = &Error{Name: "MISSING_VALIDATION", Message: "Please verify your email address before logging in", Status: http.StatusForbidden}
	SelfFollow        = &Error{Name: "SELF_FOLLOW", Message: "You cannot follow yourself !", Status: http.StatusBadRequest}
)

var byName = map[string]*Error{
	AuthFailed.Name:        AuthFailed,
	Default.Name:           Default,
	UserNotFound.Name:      UserNotFound,
	AlreadyLoggedIn.Name:   AlreadyLoggedIn,
	UserOrEmailExists.Name: UserOrEmailExists,
	PasswordMismatch.Name:  PasswordMismatch,
	TokenExpired.Name:      TokenExpired,
	LogoutError.Name:       LogoutError,
	InvalidEmail.Name:      InvalidEmail,
	InvalidPass.Name:       InvalidPass,
	MissingValidation.Name: MissingValidation,
	SelfFollow.Name:        SelfFollow,
}

// ByName resolves a condition by its name. Unknown names resolve to
// Default so the boundary never emits an unmapped error.
func ByName(name string) *Error {
	if e, ok := byName[name]; ok {
		return e
	}
	return Default
}

// From maps an arbitrary error to a taxonomy condition. Errors produced
// by the service are already *Error values and pass through unchanged;
// anything else (store failures, collaborator failures) is reported as
// Default.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return Default
}
