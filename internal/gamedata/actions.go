package gamedata

// Action types an entity definition can expose.
const (
	ActionClean   = "clean"
	ActionExamine = "examine"
	ActionHarvest = "harvest"
	ActionOpen    = "open"
	ActionClose   = "close"
	ActionTalk    = "talk"
	ActionUse     = "use"
)

// ActionOrder is the fixed order action types are offered in.
var ActionOrder = []string{
	ActionClean,
	ActionExamine,
	ActionHarvest,
	ActionOpen,
	ActionClose,
	ActionTalk,
	ActionUse,
}
