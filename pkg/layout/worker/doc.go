// Package worker runs layout engines out of process over HTTP.
//
// [Server] exposes any layout.Engine:
//
//	POST   /v1/layouts        lay out a layout.Request, answer a layout.Response
//	DELETE /v1/layouts/{id}   cancel the running layout with that id
//	GET    /healthz           liveness and running layout count
//
// The caller names each layout with the X-Layout-ID header (a UUID). A
// cancelled layout answers its POST with a response of type "cancel", so
// the client always gets an acknowledgement for the work it started.
//
// [Client] is a layout.Engine that talks to a Server. When its context is
// cancelled it sends the DELETE and waits briefly for the acknowledgement.
package worker
