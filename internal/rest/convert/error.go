package convert

import (
	"net/http"

	"github.com/socialfolio/folio/internal/database/types"
)

// HTTPStatus maps an error kind to the response status code.
func HTTPStatus(kind types.Kind) int {
	switch kind {
	case types.KindNotFound:
		return http.StatusNotFound
	case types.KindConflict:
		return http.StatusConflict
	case types.KindInvalidState:
		return http.StatusUnprocessableEntity
	case types.KindInvalidArgument:
		return http.StatusBadRequest
	case types.KindUnauthenticated:
		return http.StatusUnauthorized
	case types.KindUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
