// Package prometheus renders keymint metrics in Prometheus text exposition
// format, either as a string or as an http.Handler for a /metrics route.
package prometheus
