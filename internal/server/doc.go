// Package server streams a running scene to browsers.
//
// A [Hub] owns one scene and steps it on a ticker in its own goroutine.
// Every frame is encoded once and pushed to each websocket client's
// buffered channel; slow clients drop frames rather than stall the
// simulation. Load moves and resets reach the scene as commands over a
// channel, so the scene is never touched from an HTTP handler.
//
//	GET  /api/v1/health
//	GET  /api/v1/frame
//	POST /api/v1/ball   {"x": 2.5, "z": 0.5}
//	POST /api/v1/reset
//	GET  /api/v1/ws
package server
