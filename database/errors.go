package database

import "errors"

var (
	ErrTableNotFound = errors.New("table not found")
	ErrRowNotFound   = errors.New("row not found")
	ErrDuplicateRow  = errors.New("row id already exists")
	ErrAmbiguousRow  = errors.New("row id exists in more than one table")
	ErrInvalidRow    = errors.New("invalid row")
)
