package domain

import "errors"

var ErrCargoNotFound = errors.New("cargo not found")
var ErrPassengerNotFound = errors.New("passenger not found")
var ErrMissingRequiredField = errors.New("missing required field")
var ErrInvalidTransition = errors.New("cannot move booking backward in status")
var ErrInvalidState = errors.New("operation not allowed in current status")
var ErrMissingLocation = errors.New("current location with city, country, lat, lng is required")
var ErrInvalidCheckpoint = errors.New("invalid checkpoint")
var ErrInvalidLocation = errors.New("location could not be resolved")
var ErrConflict = errors.New("booking was modified concurrently")
var ErrDuplicateAirwaybill = errors.New("airwaybill already exists")
var ErrReceiptNotAllowed = errors.New("receipt not available for current status")
