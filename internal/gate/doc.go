// Package gate decides which dependent actions (create, replay, share) are
// permitted given the latest job outcome. The transition functions are pure;
// Gate wraps them with a holder and change notification.
package gate
