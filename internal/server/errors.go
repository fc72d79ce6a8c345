package server

import "errors"

var ErrStopped = errors.New("server: hub is not running")
