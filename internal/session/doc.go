// Package session stores per-session text slots: the last input text and
// the last translation. Writes overwrite; synthesis reads prefer the
// translated slot.
package session
