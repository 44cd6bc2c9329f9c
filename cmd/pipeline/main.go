// Command pipeline runs one bronze-to-gold pass and prints the run summary
// as JSON. Suited to cron and CI jobs; the web entrypoint covers interactive
// use.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"edulake/internal/app"
)

func main() {
	_ = godotenv.Load()

	application, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	summary, err := application.RunOnce(context.Background())
	if err != nil {
		application.Logger.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		application.Logger.Error("failed to encode summary", "error", err)
		os.Exit(1)
	}
}
