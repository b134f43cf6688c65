// Package translate adapts a chat-completion model into a text
// translator. One request per call, no retries; callers treat a failed
// round trip as "no translation".
package translate
