// Package extract pulls plain text out of uploaded documents. Dispatch
// is by file extension; unsupported or unreadable documents yield "no
// text" rather than an error.
package extract
