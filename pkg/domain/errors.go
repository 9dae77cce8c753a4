package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is a class of failure. Kinds nest: a narrower kind unwraps to its
// parent, so errors.Is(ErrCollectionNotFound, ErrNotFound) holds.
type Kind struct {
	msg    string
	parent *Kind
}

func (k *Kind) Error() string { return k.msg }

func (k *Kind) Unwrap() error {
	if k.parent == nil {
		return nil
	}
	return k.parent
}

var (
	ErrClientError          = &Kind{msg: "client error"}
	ErrBadSyntax            = &Kind{msg: "status 400: the syntax of the request was bad", parent: ErrClientError}
	ErrAuthenticationFailed = &Kind{msg: "status 401: authentication failed", parent: ErrClientError}
	ErrNotFound             = &Kind{msg: "you requested a resource from the server that does not exist", parent: ErrClientError}
	ErrCollectionNotFound   = &Kind{msg: "you requested a collection from the server that does not exist", parent: ErrNotFound}
	ErrDocumentNotFound     = &Kind{msg: "you requested a document from the server that does not exist", parent: ErrNotFound}
	ErrIndexNotFound        = &Kind{msg: "you requested an index from the server that does not exist", parent: ErrNotFound}
	ErrGraphNotFound        = &Kind{msg: "you requested a graph from the server that does not exist", parent: ErrNotFound}
	ErrServerError          = &Kind{msg: "server error"}
)

// Client side failures that never reach the server
var (
	ErrNoCollectionProvided = errors.New("this operation requires a collection")
	ErrNotADocument         = errors.New("result is not a JSON object and cannot be a document")
	ErrMissingEndpoint      = errors.New("please provide either an url or a connection to setup the database")
	ErrAuthUnsupported      = errors.New("the connection does not support authentication")
)

// Error is a failed server response
type Error struct {
	StatusCode int
	ErrorNum   int
	Message    string
	Method     string
	Path       string
	kind       *Kind
}

// ErrorBody is the JSON error envelope the server sends
type ErrorBody struct {
	Error        bool   `json:"error"`
	Code         int    `json:"code"`
	ErrorNum     int    `json:"errorNum"`
	ErrorMessage string `json:"errorMessage"`
}

// NewError classifies a failed response by status code, then by the
// server's errorNum and finally by request path. path is relative to the api
// root, e.g. "collection/users".
func NewError(status int, method, path string, body ErrorBody) *Error {
	return &Error{
		StatusCode: status,
		ErrorNum:   body.ErrorNum,
		Message:    body.ErrorMessage,
		Method:     method,
		Path:       path,
		kind:       classify(status, path, body.ErrorNum),
	}
}

// Server error numbers that narrow a 404
const (
	errorNumDocumentNotFound   = 1202
	errorNumCollectionNotFound = 1203
	errorNumIndexNotFound      = 1212
	errorNumGraphNotFound      = 1924
)

func classify(status int, path string, errorNum int) *Kind {
	switch {
	case status == http.StatusBadRequest:
		return ErrBadSyntax
	case status == http.StatusUnauthorized:
		return ErrAuthenticationFailed
	case status == http.StatusNotFound:
		return notFoundKind(path, errorNum)
	case status >= 500:
		return ErrServerError
	default:
		return ErrClientError
	}
}

func notFoundKind(path string, errorNum int) *Kind {
	switch errorNum {
	case errorNumDocumentNotFound:
		return ErrDocumentNotFound
	case errorNumCollectionNotFound:
		return ErrCollectionNotFound
	case errorNumIndexNotFound:
		return ErrIndexNotFound
	case errorNumGraphNotFound:
		return ErrGraphNotFound
	}

	path, _, _ = strings.Cut(strings.TrimPrefix(path, "/"), "?")
	segments := strings.Split(path, "/")
	switch segments[0] {
	case "collection":
		return ErrCollectionNotFound
	case "document", "simple":
		return ErrDocumentNotFound
	case "index":
		return ErrIndexNotFound
	case "gharial":
		// gharial/<graph>/<edge|vertex>/<collection>/<key>
		if len(segments) >= 5 {
			return ErrDocumentNotFound
		}
		return ErrGraphNotFound
	default:
		return ErrNotFound
	}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %s (status %d", e.Method, e.Path, e.kind.msg, e.StatusCode)
	if e.ErrorNum != 0 {
		msg += fmt.Sprintf(", errorNum %d", e.ErrorNum)
	}
	msg += ")"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap exposes the kind so callers can use errors.Is
func (e *Error) Unwrap() error { return e.kind }

// Kind returns the classification of the error
func (e *Error) Kind() *Kind { return e.kind }
