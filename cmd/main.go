package main

import (
	"os"

	"medilink-api/cmd/bootstrap"

	"github.com/sirupsen/logrus"
)

func main() {
	app, err := bootstrap.New()
	if err != nil {
		// The app logger is not built yet; keep the same JSON shape
		log := logrus.New()
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetOutput(os.Stderr)
		log.WithError(err).Fatal("Failed to initialize medilink-api")
	}

	app.Run()
}
