// Package model defines the wire types shared by the bingo REST client and
// the realtime game connection.
//
// Conventions:
//   - JSON field names follow the server's snake_case naming
//   - Positions: 0-based cell index, row-major (0-24 on a 5x5 board)
//   - Timestamps: time.Time, RFC 3339 on the wire
package model
