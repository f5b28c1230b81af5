// Package api provides the REST client for the bingo game server.
//
// Endpoints:
//   - POST /api/game/{playerID}/mark/   body {"position": n}
//   - POST /api/game/{playerID}/clear/
//   - GET  /game/{playerID}/            board page, sets the csrftoken cookie
//
// Every POST carries an X-CSRFToken header copied from the csrftoken cookie.
// The realtime channel lives at ws(s)://host/ws/game/{playerID}/.
package api
