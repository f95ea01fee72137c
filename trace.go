package main

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'goforth'
func tracer() tracing.Trace {
	return tracing.Select("goforth")
}
