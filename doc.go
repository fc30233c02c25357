// Package tgvmaxmap serves the TGV Max station graph to a map front-end.
//
// The HTTP API reads the snapshot published by a loader.Holder once per
// request, so responses never mix two load cycles. A background loop
// reloads the snapshot on a fixed interval.
package tgvmaxmap
