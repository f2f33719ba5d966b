package repository

import "errors"

var (
	// ErrDuplicateID is returned when Create is given an id that is already stored.
	ErrDuplicateID = errors.New("record with this id already exists")
	// ErrDuplicatePhone is returned when a phone number is already registered.
	ErrDuplicatePhone = errors.New("phone already registered")
	// ErrRecordNotFound is returned by writes that target an unknown id.
	ErrRecordNotFound = errors.New("record not found")
)
