// Package server exposes the search engine over HTTP.
//
// The engine and its catalog cache are single-writer structures, so
// every handler serializes engine access behind one mutex; requests
// queue rather than race. Endpoints live under /api, Prometheus
// metrics under /metrics.
package server
