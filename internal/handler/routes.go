package handler

// APIV1Prefix is the canonical base path for public HTTP API v1.
// Keep a single source of truth to avoid path drift across handlers and tests.
const APIV1Prefix = "/api/v1"

// Resource groups mounted under APIV1Prefix.
const (
	ItemsPath       = "/items"
	StocksPath      = "/stocks"
	AdjustmentsPath = "/adjustments"
)
