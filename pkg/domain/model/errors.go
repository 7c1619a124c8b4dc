package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrInvalidFilterSpec = goerr.New("invalid filter spec")
	ErrMalformedRecord   = goerr.New("malformed ticket record")
)

// Error tags for categorization
var (
	ErrTagInvalidFilter   = goerr.NewTag("invalid_filter")
	ErrTagMalformedRecord = goerr.NewTag("malformed_record")
)
