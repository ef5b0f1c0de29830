package monitoring

import "log"

// LogFunc has the shape of log.Printf.
type LogFunc func(format string, args ...any)

// Logf receives warnings from the formatter and the vessel store: rows that
// degrade to unavailable and coordinates in the wrong unit. Binaries leave
// it on log.Printf.
var Logf LogFunc = log.Printf

// SetLogger points Logf at f, or silences it when f is nil, and returns a
// func that puts the previous logger back.
func SetLogger(f LogFunc) (restore func()) {
	prev := Logf
	if f == nil {
		f = func(string, ...any) {}
	}
	Logf = f
	return func() { Logf = prev }
}
