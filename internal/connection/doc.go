// Package connection implements the realtime game connection.
//
// The GameConnection:
//   - Opens one WebSocket channel per player to /ws/game/{playerID}/
//   - Requests a full game state snapshot on every successful open
//   - Sends an application-level ping every 30 seconds while open
//   - Reconnects with exponential backoff (1s, 2s, 4s, 8s, 16s) on transient closes
//   - Treats close codes 4004/4005 and a concluded game as terminal
//   - Surfaces game state, winner and fatal events through a Handler
package connection
