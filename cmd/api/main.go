// Command api serves the user signup REST API.
package main

import (
	"context"
	"log"

	"user-signup-service/cmd/api/app"
	"user-signup-service/cmd/api/server"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	ctx, stop := server.WithSignal(context.Background())
	defer stop()

	if err := a.Run(ctx); err != nil {
		stop()
		log.Fatalf("application exited with error: %v", err)
	}
}
