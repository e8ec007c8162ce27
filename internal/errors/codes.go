// Package errors defines the machine-readable error codes for the engine and
// maps them onto the collaborator-facing error taxonomy.
package errors

import "github.com/louisbranch/airlock/internal/platform/errors"

// Code is a machine-readable error code.
type Code = errors.Code

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Dice errors
	CodeDiceInvalidExpression Code = "DICE_INVALID_EXPRESSION"

	// Character errors
	CodeCharacterDuplicateName Code = "CHARACTER_DUPLICATE_NAME"
	CodeCharacterNotFound      Code = "CHARACTER_NOT_FOUND"
	CodeCharacterUnknownStat   Code = "CHARACTER_UNKNOWN_STAT"
	CodeCharacterUnknownClass  Code = "CHARACTER_UNKNOWN_CLASS"
	CodeCharacterItemNotFound  Code = "CHARACTER_ITEM_NOT_FOUND"

	// Combat errors
	CodeCombatEmptyRoster   Code = "COMBAT_EMPTY_ROSTER"
	CodeCombatAlreadyActive Code = "COMBAT_ALREADY_ACTIVE"
	CodeCombatNotActive     Code = "COMBAT_NOT_ACTIVE"
	CodeCombatNotYourTurn   Code = "COMBAT_NOT_YOUR_TURN"
	CodeCombatUnknownTarget Code = "COMBAT_UNKNOWN_TARGET"
	CodeCombatUnknownAction Code = "COMBAT_UNKNOWN_ACTION"
	CodeCombatMissingTarget Code = "COMBAT_MISSING_TARGET"

	// Campaign errors
	CodeCampaignInvalidDocument Code = "CAMPAIGN_INVALID_DOCUMENT"
	CodeCampaignNotLoaded       Code = "CAMPAIGN_NOT_LOADED"
	CodeCampaignUnknownLocation Code = "CAMPAIGN_UNKNOWN_LOCATION"
	CodeCampaignUnknownEntity   Code = "CAMPAIGN_UNKNOWN_ENTITY"
	CodeCampaignUnknownMission  Code = "CAMPAIGN_UNKNOWN_MISSION"
	CodeCampaignUnknownTable    Code = "CAMPAIGN_UNKNOWN_TABLE"
	CodeCampaignDrawOutOfRange  Code = "CAMPAIGN_DRAW_OUT_OF_RANGE"

	// Engine/state errors
	CodeActionUnknown Code = "ACTION_UNKNOWN"
	CodeSystemUnknown Code = "SYSTEM_UNKNOWN"
	CodeStateCorrupt  Code = "STATE_CORRUPT"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Scenario errors
	CodeScenarioInvalidScript Code = "SCENARIO_INVALID_SCRIPT"
)

// Kind is the coarse collaborator-facing error classification.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindState      Kind = "STATE"
	KindUnknown    Kind = "UNKNOWN"
)

// KindOf maps a code to its collaborator-facing kind.
func KindOf(code Code) Kind {
	switch code {
	case CodeDiceInvalidExpression,
		CodeCharacterUnknownStat,
		CodeCharacterUnknownClass,
		CodeCombatEmptyRoster,
		CodeCombatMissingTarget,
		CodeCombatUnknownAction,
		CodeCampaignInvalidDocument,
		CodeCampaignDrawOutOfRange,
		CodeActionUnknown,
		CodeScenarioInvalidScript:
		return KindValidation

	case CodeCharacterNotFound,
		CodeCharacterItemNotFound,
		CodeCombatUnknownTarget,
		CodeCampaignNotLoaded,
		CodeCampaignUnknownLocation,
		CodeCampaignUnknownEntity,
		CodeCampaignUnknownMission,
		CodeCampaignUnknownTable,
		CodeSystemUnknown,
		CodeNotFound:
		return KindNotFound

	case CodeCharacterDuplicateName,
		CodeCombatAlreadyActive,
		CodeCombatNotActive,
		CodeCombatNotYourTurn:
		return KindConflict

	case CodeStateCorrupt:
		return KindState

	default:
		return KindUnknown
	}
}
