// Package websocket provides real-time progress streaming via WebSocket.
//
// Clients can connect to /api/v1/scenarios/:id/ws to receive progress
// updates while a scenario is executing.
package websocket
