// Package session implements in-memory, token-based login sessions.
//
// A [Session] is an immutable grant of {owner, expiry} created on
// successful login. The [Manager] owns the registry mapping opaque
// bearer tokens to sessions and is the only component that mutates it.
//
// A token is live until it expires, is invalidated by logout, or is
// rotated by refresh; there is no visible expired state. Expired entries
// are evicted lazily on next access, so the registry can hold dead
// entries until touched. An optional periodic sweep bounds that growth
// but is never required for correctness.
//
// Refresh rotates tokens atomically: the old token stops validating in
// the same critical section that installs the new one, so sliding
// expiration never leaves a window where both tokens (or neither) work.
package session
