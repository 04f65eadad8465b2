package main

import (
	"github.com/haguru/jiraiya/config"
	"github.com/haguru/jiraiya/internal/app"
)

func main() {
	// create and initialize the app
	app, err := app.NewApp(config.CONFIG_PATH)
	if err != nil {
		panic(err)
	}

	// Run blocks until SIGINT or SIGTERM, then drains requests and closes the database.
	if err := app.Run(); err != nil {
		panic(err)
	}
}
