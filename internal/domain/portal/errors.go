package portal

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workerhealth/hid/internal/domain/access"
	"github.com/workerhealth/hid/internal/domain/account"
	"github.com/workerhealth/hid/internal/domain/healthid"
	"github.com/workerhealth/hid/internal/domain/record"
)

var errorMap = []struct {
	target   error
	status   int
	category string
}{
	{access.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
	{access.ErrForbidden, http.StatusForbidden, "forbidden"},
	{account.ErrDuplicatePhone, http.StatusConflict, "duplicate_phone"},
	{healthid.ErrAlreadyIssued, http.StatusConflict, "already_issued"},
	{healthid.ErrMalformedIdentity, http.StatusBadRequest, "malformed_identity"},
	{healthid.ErrUnknownIdentity, http.StatusNotFound, "unknown_identity"},
	{record.ErrInvalidFollowUpDate, http.StatusBadRequest, "invalid_follow_up_date"},
	{account.ErrInvalidAccount, http.StatusBadRequest, "invalid_request"},
	{account.ErrNotFound, http.StatusNotFound, "unknown_identity"},
}

// httpError maps a service error onto an echo.HTTPError whose message is
// an ErrorBody. Unrecognized errors become 500 without leaking detail.
func httpError(err error) error {
	for _, m := range errorMap {
		if errors.Is(err, m.target) {
			return echo.NewHTTPError(m.status, ErrorBody{Error: m.category, Message: err.Error()})
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, ErrorBody{Error: "internal", Message: "internal server error"}).SetInternal(err)
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, ErrorBody{Error: "invalid_request", Message: msg})
}
