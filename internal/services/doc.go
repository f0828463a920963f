// Package services implements the character sheet data service and the HTTP transport it calls.
//
// # Transport
//
// [CharacterSheetTransport] is the remote collaborator: one call per operation (list, get, save, update, delete),
// each resolving exactly once with a result or an error.
// [CharacterSheetHTTP] implements it against the REST API served by internal/server, on top of [APIService].
//
// [APIService] is the JSON-over-HTTP client. It maps non-2xx responses to shared errors:
//   - 404 : [shared.ErrCharacterSheetNotFound]
//   - 401, 403 : [shared.ErrNotAuthenticated]
//   - anything else : [shared.ErrAPIRequest]
//
// Bearer tokens are attached by an [oauth2.StaticTokenSource] client (see [NewHTTPClient]),
// and requests can be throttled with a [rate.Limiter].
//
// # Data Service
//
// [CharacterSheetService] commits transport results into observable wrappers that UIs subscribe to:
//   - CharacterSheets : every known sheet, in server order
//   - SelectedCharacterSheet : the sheet being viewed
//   - NewCharacterSheet : the draft being edited
//
// A failed call never mutates state; the error is logged and returned so the UI can surface it.
package services
