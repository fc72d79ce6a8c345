package contact

import "errors"

// ErrNegativeIterations is returned when a resolver is built with a negative
// iteration budget.
var ErrNegativeIterations = errors.New("contact: negative iteration count")
