// Package metrics provides the Prometheus registry used by attendee-beacon.
// All metrics are defined in their respective packages (client, pagination,
// server) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the registry exposed on /metrics.
var Gatherer = prometheus.DefaultGatherer

// Metrics Documentation
//
// Eventbrite Client Metrics (pkg/client):
//   - eventbrite_requests_total{route, status} (Counter): Requests by route (events_search, event_attendees, other) and HTTP status
//   - eventbrite_request_duration_seconds{route} (Histogram): Request duration by route
//   - eventbrite_errors_total{class} (Counter): Errors by class (client, server, network, decode)
//
// Pagination Metrics (pkg/pagination):
//   - pagination_pages_fetched_total (Counter): Pages fetched by the collector
//   - pagination_items_collected_total (Counter): Items appended across all pages
//
// Connection Server Metrics (pkg/server):
//   - server_connections_accepted_total (Counter): Accepted connections
//   - server_connections_active (Gauge): Connections currently being handled
//   - server_responses_written_total (Counter): Fixed responses written in full
//   - server_connection_errors_total{op} (Counter): Errors by operation (accept, read, write)
//
// Example Prometheus Queries:
//
//   # Connection rate
//   rate(server_connections_accepted_total[5m])
//
//   # Share of connections whose response could not be written
//   rate(server_connection_errors_total{op="write"}[5m]) / rate(server_connections_accepted_total[5m])
//
//   # P95 Eventbrite latency
//   histogram_quantile(0.95, rate(eventbrite_request_duration_seconds_bucket[5m]))
