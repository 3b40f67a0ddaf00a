// Package siri consumes SIRI-Lite (Service Interface for Real-time
// Information, JSON profile) payloads from a transit data provider.
//
// It covers the three endpoints this service reads:
//
//   - lines-discovery: annotated line references with their destinations
//   - stoppoints-discovery: stop points within a bounding box
//   - stop-monitoring: upcoming visits (departures) at a stop
//
// Provider payloads are loosely typed. The same logical field may arrive
// as a plain scalar, a one-element array, or a {"value": ...} record
// depending on the deployment. FlexValue absorbs all of those shapes so
// the decoded record types carry plain strings and ints.
package siri
