package handler

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/socialfolio/folio/internal/database/types"
	"github.com/socialfolio/folio/internal/rest/middleware/identity"
	"github.com/uptrace/bunrouter"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names instead of Go field names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// decode reads and validates a JSON request body.
func decode(req bunrouter.Request, v any) error {
	if err := sonic.ConfigStd.NewDecoder(req.Body).Decode(v); err != nil {
		return types.NewError(types.KindInvalidArgument, "malformed request body")
	}

	if err := validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return types.NewError(types.KindInvalidArgument,
				fmt.Sprintf("field %q failed the %q check", fe.Field(), fe.Tag()))
		}
		return types.NewError(types.KindInvalidArgument, "invalid request body")
	}

	return nil
}

// pathID parses a positive integer path parameter.
func pathID(req bunrouter.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(req.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, types.NewError(types.KindInvalidArgument, "invalid "+name)
	}
	return id, nil
}

// queryLimit parses an optional positive query parameter, applying def when
// absent and clamping to maxValue.
func queryLimit(req bunrouter.Request, name string, def, maxValue int) (int, error) {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, types.NewError(types.KindInvalidArgument, name+" must be a positive integer")
	}
	return min(n, maxValue), nil
}

// callerID returns the authenticated user ID set by the identity middleware.
func callerID(ctx context.Context) (int64, error) {
	userID, ok := identity.UserID(ctx)
	if !ok {
		return 0, types.ErrUnauthenticated
	}
	return userID, nil
}
