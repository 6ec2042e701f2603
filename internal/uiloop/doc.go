// Package uiloop provides the interactive-context scheduler. Background work
// never touches interactive state directly; it posts funcs to a Dispatcher,
// and Loop runs them one at a time on the single goroutine executing Run.
package uiloop
