package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vincit.fi/game-shelf/backend"
	"vincit.fi/game-shelf/common"
	"vincit.fi/game-shelf/common/constants"
	"vincit.fi/game-shelf/common/logger"
	"vincit.fi/game-shelf/common/query"
	"vincit.fi/game-shelf/ui/console"
)

func main() {
	params, err := common.ParseParams(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	logger.Initialize(logger.StringToLogLevel(params.LogLevel()))
	defer logger.Sync()

	if err := run(params); err != nil {
		logger.Error.Print(err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(params *common.Params) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seeds := backend.ParseCategories(params.Categories())
	locale := params.Locale()
	if configFile := common.FindConfigFile(params); configFile != "" {
		config, err := common.LoadConfig(configFile)
		if err != nil {
			return err
		}
		seeds = append(config.Seeds(), seeds...)
		if locale == "" {
			locale = config.Locale
		}
	}
	if locale == "" {
		locale = constants.DefaultLocale
	}

	stores, err := backend.InitializeStores(params.RootPath(), params.DatabaseFile())
	if err != nil {
		return err
	}
	defer stores.Close()

	brokers := backend.InitializeEventBrokers(constants.EventBusQueueSize)
	defer brokers.Close()

	services := backend.InitializeServices(stores, brokers)
	defer services.Close()

	if err := services.InitializeCategories(ctx, seeds); err != nil {
		return fmt.Errorf("could not initialize categories: %w", err)
	}

	engine := query.NewEngineForLocale(locale)
	logger.Info.Printf("Ordering names with locale %s", engine.Language())

	gui := console.NewConsole(services.Collection, services.Mutator, engine, os.Stdin, os.Stdout)
	gui.Connect(brokers.Broker)
	return gui.Run(ctx)
}
