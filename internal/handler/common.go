package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getOperatorID
	"strconv" // strconv converts strings to numeric types

	"github.com/labstack/echo/v4" // echo defines request context types
)

// errNoOperator is returned when the context carries no usable operator id.
var errNoOperator = errors.New("operator id missing from context")

// getOperatorID extracts the operator_id set by the JWT middleware and
// converts it to uint64.  JWT numeric claims arrive as float64; string
// subjects are parsed as a fallback.
func getOperatorID(c echo.Context) (uint64, error) {
	switch t := c.Get("operator_id").(type) {
	case uint64:
		return t, nil
	case float64:
		return uint64(t), nil
	case string:
		if id, err := strconv.ParseUint(t, 10, 64); err == nil {
			return id, nil
		}
	}
	return 0, errNoOperator
}
