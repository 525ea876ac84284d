// Package search holds the request-scoped value types exchanged between the
// builders and the engine adapter: the search context snapshot, the compiled
// request and the parsed response.
package search

// LocalizedCatalog identifies the catalog scope of a request: a business
// catalog localized for one locale and currency. Its code is part of the
// physical index name.
type LocalizedCatalog struct {
	Code     string `json:"code"`
	Locale   string `json:"locale"`
	Currency string `json:"currency"`
}

// Context is the immutable per-request snapshot of caller state that the
// builders need. It is passed explicitly through the call chain; concurrent
// requests never share one.
type Context struct {
	CurrentCategoryID string
	PriceGroupID      string
	ReferenceLocation string // "lat,lon"
	QueryText         string
}
