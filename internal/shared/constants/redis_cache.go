package constants

import "time"

// Redis Cache Configuration
// Centralizes cache keys and TTL values for the storefront read paths.
// Pattern: denchetravel:{module}:{operation}:{identifier}

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG  = 24 * time.Hour
	TTL_STATIC_SHORT = 6 * time.Hour
)

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour
	TTL_SEMI_STATIC_SHORT  = 1 * time.Hour
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute
)

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_SHORT = 5 * time.Minute
	TTL_DYNAMIC_QUICK = 2 * time.Minute
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "denchetravel"
)

// ================== TRIPS MODULE ==================

const (
	CACHE_KEY_TRIPS_LIST     = CACHE_PREFIX + ":trips:list"         // active trips with departures
	CACHE_KEY_TRIP_BY_SLUG   = CACHE_PREFIX + ":trips:detail:slug:" // + trip-slug
	CACHE_KEY_TRIPS_FEATURED = CACHE_PREFIX + ":trips:featured"
)

const (
	TTL_TRIPS_LIST  = TTL_SEMI_STATIC_SHORT // 1 hour
	TTL_TRIP_DETAIL = TTL_SEMI_STATIC_MEDIUM
)

// ================== DEPARTURES MODULE ==================

// Departure availability is never cached: spots_left is the oversell
// serialization point and must always be read through the ledger.
const (
	CACHE_KEY_DEPARTURES_UPCOMING = CACHE_PREFIX + ":departures:upcoming"
)

const (
	TTL_DEPARTURES_UPCOMING = TTL_DYNAMIC_SHORT
)
