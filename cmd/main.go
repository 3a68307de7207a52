package main

import (
	"go-healthcare-booking/cmd/bootstrap"

	"github.com/sirupsen/logrus"
)

func main() {
	app, err := bootstrap.New()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to start healthcare booking service")
	}

	// Blocks until SIGINT or SIGTERM
	app.Run()
}
