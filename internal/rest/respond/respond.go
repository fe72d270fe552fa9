// Package respond writes JSON responses and maps domain errors to HTTP
// status codes.
package respond

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/socialfolio/folio/internal/database/types"
	"github.com/socialfolio/folio/internal/rest/convert"
	restTypes "github.com/socialfolio/folio/internal/rest/types"
	"go.uber.org/zap"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return sonic.ConfigStd.NewEncoder(w).Encode(v)
}

// Error writes the error body for err. Internal errors are logged and their
// details are not exposed.
func Error(w http.ResponseWriter, logger *zap.Logger, err error) error {
	kind := types.KindOf(err)
	status := convert.HTTPStatus(kind)

	if kind == types.KindInternal {
		logger.Error("Request failed", zap.Error(err))
	}

	return JSON(w, status, restTypes.ErrorResponse{
		Error:   http.StatusText(status),
		Message: types.MessageOf(err),
	})
}
