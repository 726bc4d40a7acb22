package common

import (
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"vincit.fi/game-shelf/common/constants"
)

type Params struct {
	categories   []string
	logLevel     string
	databaseFile string
	configFile   string
	locale       string
	rootPath     string
}

// ParseParams reads the command line. Values not given on the command line are taken from
// GAMESHELF_* environment variables, which may also come from a .env file in the working directory.
func ParseParams(args []string) (*Params, error) {
	_ = godotenv.Load()

	flags := flag.NewFlagSet("game-shelf", flag.ContinueOnError)
	categories := flags.String("categories", "", "Comma separated categories. Each category in format <name> or <name>:system e.g. Favorites:system")
	logLevel := flags.String("logLevel", "", "Log level: ERROR, WARN, INFO, DEBUG, TRACE")
	databaseFile := flags.String("database", "", "Database file. Defaults to <root>/"+constants.GameShelfDir+"/"+constants.DatabaseFileName)
	configFile := flags.String("config", "", "YAML file with default categories")
	locale := flags.String("locale", "", "Locale used to order category names e.g. en, fi, sv")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	rootPath := flags.Arg(0)
	if rootPath == "" {
		rootPath = getenv("ROOT", ".")
	}

	return &Params{
		categories:   splitCategories(firstNonEmpty(*categories, getenv("CATEGORIES", ""))),
		logLevel:     firstNonEmpty(*logLevel, getenv("LOG_LEVEL", "INFO")),
		databaseFile: firstNonEmpty(*databaseFile, getenv("DATABASE", "")),
		configFile:   firstNonEmpty(*configFile, getenv("CONFIG", "")),
		locale:       firstNonEmpty(*locale, getenv("LOCALE", "")),
		rootPath:     rootPath,
	}, nil
}

func getenv(key string, def string) string {
	if v := os.Getenv(constants.EnvPrefix + key); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func splitCategories(value string) []string {
	var categories []string
	for _, category := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(category); trimmed != "" {
			categories = append(categories, trimmed)
		}
	}
	return categories
}

func (s *Params) Categories() []string {
	return s.categories
}

func (s *Params) LogLevel() string {
	return s.logLevel
}

func (s *Params) DatabaseFile() string {
	return s.databaseFile
}

func (s *Params) ConfigFile() string {
	return s.configFile
}

func (s *Params) Locale() string {
	return s.locale
}

func (s *Params) RootPath() string {
	return s.rootPath
}
