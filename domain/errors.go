package domain

import "errors"

var (
	// ErrUnauthenticated indicates no usable credential was available.
	ErrUnauthenticated = errors.New("please log in")

	// ErrEmptyComment indicates the user submitted an empty comment.
	ErrEmptyComment = errors.New("comment cannot be empty")

	// ErrPropertyUnavailable indicates an entry has no linked property.
	ErrPropertyUnavailable = errors.New("property details not available")

	// ErrShareUnavailable indicates no share method succeeded.
	ErrShareUnavailable = errors.New("sharing not available")
)
