// Package middleware provides net/http adapters over the keymint manager:
// bearer-token extraction, validation, and scope enforcement. It is the only
// HTTP-aware code in the module; everything it needs from the core is
// "plaintext in, user context or invalid out".
package middleware
