// Package notifications sends ntfy push messages when videos are created,
// shared, or fail. Without a configured topic every call is a no-op.
package notifications
