// Package server provides the reference REST backend for character sheets.
//
// # Router
//
// [NewRouter] builds a chi router. Every request passes through [RequestID], [Logging] and chi's panic recoverer.
// Routes under /api additionally pass through [BearerAuth] when a token is configured.
//
// [Middleware] is the plain func(http.Handler) http.Handler shape, so the package's middleware mixes freely with chi's.
//
// # Handlers
//
// Resource handlers implement the [Handler] interface and register their own routes through [Mount],
// keeping route definitions next to the handler methods.
// [CharacterSheetHandler] serves the /api/character-sheets resource from a [repositories.Store].
//
// # Wire format
//
// Bodies are JSON. Failures are written as {"detail": "..."} with a non-2xx status.
// DELETE answers a bare JSON boolean: true when a sheet was removed, false when there was nothing to remove.
package server
