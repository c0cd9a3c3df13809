package bindex

import "errors"

var (
	ErrAlreadyExists   = errors.New("bindex: target already exists")
	ErrNotFound        = errors.New("bindex: index file not found")
	ErrMalformedHeader = errors.New("bindex: malformed header")
	ErrKeyNotFound     = errors.New("bindex: key not found")
	ErrDuplicateKey    = errors.New("bindex: duplicate key")
	ErrInvariant       = errors.New("bindex: internal invariant violation")
)
