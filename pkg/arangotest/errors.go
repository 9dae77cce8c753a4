package arangotest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/adfharrison1/go-arango/pkg/domain"
)

// Server error numbers used by the fake
const (
	errorNumHTTPBadParameter      = 400
	errorNumHTTPNotFound          = 404
	errorNumDocumentNotFound      = 1202
	errorNumCollectionNotFound    = 1203
	errorNumDuplicateName         = 1207
	errorNumIllegalName           = 1208
	errorNumUniqueConstraint      = 1210
	errorNumIndexNotFound         = 1212
	errorNumDatabaseNotFound      = 1228
	errorNumQueryParse            = 1501
	errorNumCursorNotFound        = 1600
	errorNumGraphNotFound         = 1924
	errorNumGraphDuplicate        = 1925
	errorNumTransactionInternal   = 1650
	errorNumEdgeCollectionNotUsed = 1930
)

// writeError writes the server's JSON error envelope
func writeError(w http.ResponseWriter, statusCode, errorNum int, message string) {
	writeJSON(w, statusCode, domain.ErrorBody{
		Error:        true,
		Code:         statusCode,
		ErrorNum:     errorNum,
		ErrorMessage: message,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func decodeBody(r *http.Request, out interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
