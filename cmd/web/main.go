// Command web serves the pipeline over HTTP: a run trigger, health and
// metrics endpoints, and a websocket stream of run progress.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"edulake/internal/app"
)

func main() {
	// A missing .env is fine; the environment may be set by the host.
	_ = godotenv.Load()

	application, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		application.Logger.Error("application exited with error", "error", err)
		os.Exit(1)
	}
}
