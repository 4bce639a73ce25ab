package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "reliefdesk",
		Usage: "Disaster relief coordination server",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "env-file",
				Aliases: []string{"e"},
				Usage:   "Env files to load before reading the environment",
				Value:   cli.NewStringSlice(".env"),
			},
		},
		Commands: []*cli.Command{
			serveCommand,
			relayCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
