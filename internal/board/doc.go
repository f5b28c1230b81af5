// Package board holds the player's view of the game: the cells with their
// covered, free and win flags, the connected players, the activity feed, the
// winner announcement and the error banner.
//
// A Board is a connection.Handler, so a GameConnection can push snapshots and
// winner announcements straight into it. All methods are safe for concurrent
// use.
package board
