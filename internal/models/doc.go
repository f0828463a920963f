// Package models defines the character sheet entity, its editable draft, and the persistence interface.
//
//   - [CharacterSheet] : a persisted sheet; the identifier is zero until the server assigns one
//   - [CharacterSheetDraft] : the form-backed, pre-persistence representation used by create flows
//
// Drafts are converted to sheets only at the save boundary via [CharacterSheetDraft.CharacterSheet].
// The [Repository] interface defines the CRUD operations implemented by the backend stores.
package models
