// package services defines the character sheet transport and the data service built on it
package services

import (
	"context"

	"github.com/desertthunder/charsheet/internal/models"
)

// CharacterSheetTransport performs the remote call for each character sheet operation.
type CharacterSheetTransport interface {
	// GetAllCharacterSheets lists every sheet.
	GetAllCharacterSheets(ctx context.Context) ([]models.CharacterSheet, error)

	// GetCharacterSheetByID fetches one sheet.
	GetCharacterSheetByID(ctx context.Context, id int) (*models.CharacterSheet, error)

	// SaveNewCharacterSheet stores an unsaved sheet; the server assigns its identifier.
	SaveNewCharacterSheet(ctx context.Context, sheet models.CharacterSheet) (*models.CharacterSheet, error)

	// UpdateCharacterSheet replaces a stored sheet.
	UpdateCharacterSheet(ctx context.Context, sheet models.CharacterSheet) (*models.CharacterSheet, error)

	// DeleteCharacterSheet removes a sheet, reporting whether the server deleted it.
	DeleteCharacterSheet(ctx context.Context, id int) (bool, error)
}
