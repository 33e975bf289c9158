package draftjs

import "errors"

var (
	// ErrMalformedBlock indicates a keyed block is missing a required field or
	// carries a value of the wrong shape.
	ErrMalformedBlock = errors.New("draftjs: malformed block")
	// ErrMalformedEntityMap indicates the entity map is not an object of objects.
	ErrMalformedEntityMap = errors.New("draftjs: malformed entity map")
)
