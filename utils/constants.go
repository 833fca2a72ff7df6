// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 12 * time.Hour

// TokenStorageKey is the fixed name clients persist the credential token
// under. Kept here so web and mobile clients agree on it.
const TokenStorageKey = "servicesync_token"
