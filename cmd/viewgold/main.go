// Command viewgold inspects the county-joined gold table: schema, a sample
// of rows, the standout county per metric, and an overall rank-sum winner
// across affordability, school performance and inclusion.
package main

import (
	"context"
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

	if err := run(context.Background(), application); err != nil {
		application.Logger.Error("gold inspection failed", "error", err)
		os.Exit(1)
	}
}
