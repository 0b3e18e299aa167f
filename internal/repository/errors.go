package repository

import "errors"

// ErrNotFound is returned when a row is missing or soft-deleted. The HTTP
// layer is the only place that turns it into a status code.
var ErrNotFound = errors.New("not found")
