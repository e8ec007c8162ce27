package i18n

// Error codes must match the codes defined in internal/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeDiceInvalidExpression   = "DICE_INVALID_EXPRESSION"
	CodeCharacterDuplicateName  = "CHARACTER_DUPLICATE_NAME"
	CodeCharacterNotFound       = "CHARACTER_NOT_FOUND"
	CodeCharacterUnknownStat    = "CHARACTER_UNKNOWN_STAT"
	CodeCharacterUnknownClass   = "CHARACTER_UNKNOWN_CLASS"
	CodeCharacterItemNotFound   = "CHARACTER_ITEM_NOT_FOUND"
	CodeCombatEmptyRoster       = "COMBAT_EMPTY_ROSTER"
	CodeCombatAlreadyActive     = "COMBAT_ALREADY_ACTIVE"
	CodeCombatNotActive         = "COMBAT_NOT_ACTIVE"
	CodeCombatNotYourTurn       = "COMBAT_NOT_YOUR_TURN"
	CodeCombatUnknownTarget     = "COMBAT_UNKNOWN_TARGET"
	CodeCombatUnknownAction     = "COMBAT_UNKNOWN_ACTION"
	CodeCombatMissingTarget     = "COMBAT_MISSING_TARGET"
	CodeCampaignInvalidDocument = "CAMPAIGN_INVALID_DOCUMENT"
	CodeCampaignNotLoaded       = "CAMPAIGN_NOT_LOADED"
	CodeCampaignUnknownLocation = "CAMPAIGN_UNKNOWN_LOCATION"
	CodeCampaignUnknownEntity   = "CAMPAIGN_UNKNOWN_ENTITY"
	CodeCampaignUnknownMission  = "CAMPAIGN_UNKNOWN_MISSION"
	CodeCampaignUnknownTable    = "CAMPAIGN_UNKNOWN_TABLE"
	CodeCampaignDrawOutOfRange  = "CAMPAIGN_DRAW_OUT_OF_RANGE"
	CodeActionUnknown           = "ACTION_UNKNOWN"
	CodeSystemUnknown           = "SYSTEM_UNKNOWN"
	CodeStateCorrupt            = "STATE_CORRUPT"
	CodeNotFound                = "NOT_FOUND"
	CodeScenarioInvalidScript   = "SCENARIO_INVALID_SCRIPT"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Dice errors
		CodeDiceInvalidExpression: "Invalid dice expression {{.Expression}}",

		// Character errors
		CodeCharacterDuplicateName: "Character {{.Name}} already exists",
		CodeCharacterNotFound:      "Character {{.Name}} was not found",
		CodeCharacterUnknownStat:   "Unknown stat {{.Stat}}",
		CodeCharacterUnknownClass:  "Unknown character class {{.Class}}",
		CodeCharacterItemNotFound:  "{{.Name}} does not carry {{.Item}}",

		// Combat errors
		CodeCombatEmptyRoster:   "Combat needs at least one combatant",
		CodeCombatAlreadyActive: "Combat is already in progress",
		CodeCombatNotActive:     "No combat is in progress",
		CodeCombatNotYourTurn:   "It is {{.Current}}'s turn, not {{.Name}}'s",
		CodeCombatUnknownTarget: "Target {{.Target}} was not found",
		CodeCombatUnknownAction: "Unknown combat action {{.Action}}",
		CodeCombatMissingTarget: "Action {{.Action}} requires a target",

		// Campaign errors
		CodeCampaignInvalidDocument: "Campaign module is invalid: {{.Violations}}",
		CodeCampaignNotLoaded:       "Campaign {{.Name}} is not loaded",
		CodeCampaignUnknownLocation: "Location {{.ID}} was not found",
		CodeCampaignUnknownEntity:   "Entity {{.ID}} was not found",
		CodeCampaignUnknownMission:  "Mission {{.ID}} was not found",
		CodeCampaignUnknownTable:    "Random table {{.ID}} was not found",
		CodeCampaignDrawOutOfRange:  "Draw {{.Draw}} is outside the table's dice range",

		// Engine/state errors
		CodeActionUnknown: "Unknown action {{.Action}}",
		CodeSystemUnknown: "Unknown rule system {{.System}}",
		CodeStateCorrupt:  "Saved state is corrupt or incompatible",

		// Storage errors
		CodeNotFound: "The requested resource was not found",

		// Scenario errors
		CodeScenarioInvalidScript: "Scenario script is invalid",
	},
}
