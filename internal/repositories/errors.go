package repositories

import "errors"

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrCityNotFound       = errors.New("city not found")
)
