package application

import "errors"

var ErrBadRequest = errors.New("bad request")
var ErrFetchInFlight = errors.New("quote fetch already in progress")
