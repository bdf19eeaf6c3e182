package domain

import "errors"

var (
	// ErrNoEnabledSources aborts a sync pass before anything is fetched.
	ErrNoEnabledSources = errors.New("no enabled sources")

	ErrArticleNotFound = errors.New("article not found")
	ErrSourceNotFound  = errors.New("source not found")
)
