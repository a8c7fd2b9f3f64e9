package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrContentNotFound indicates the requested content does not exist
	ErrContentNotFound = errors.New("content not found")

	// ErrDuplicateContent indicates an add matched an existing provider id
	ErrDuplicateContent = errors.New("content already tracked")

	// ErrProviderUnavailable indicates a metadata catalog is unreachable
	ErrProviderUnavailable = errors.New("metadata provider is unreachable")

	// ErrSliderNotFound indicates the requested slider does not exist
	ErrSliderNotFound = errors.New("slider not found")
)
