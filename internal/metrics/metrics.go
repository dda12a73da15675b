// Package metrics declares the Prometheus collectors exported on the
// metrics listener.
package metrics

const Namespace = "campjournal"

const (
	LabelCache  = "cache"
	LabelMethod = "method"
	LabelCode   = "code"
	LabelResult = "result"
)
