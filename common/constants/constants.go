package constants

const (
	GameShelfDir       = ".game-shelf"
	DatabaseFileName   = "game-shelf.db"
	ConfigFileName     = "config.yaml"
	EnvPrefix          = "GAMESHELF_"
	EventBusQueueSize  = 1000
	DefaultLocale      = "en"
	SystemCategoryFlag = "system"
)
