package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/tech-arch1tect/accounts/app"
	"github.com/tech-arch1tect/accounts/services/admin"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "createadmin: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	a, err := app.NewApp().WithAutoConfig().Build()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := a.Start(ctx); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer a.Stop()

	result, err := a.Admin().Bootstrap(ctx, a.Config().Admin)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case admin.OutcomeCreated:
		log.Printf("Created superuser %s", result.Email.Address)
	case admin.OutcomePromoted:
		log.Printf("Promoted %s to superuser", result.Email.Address)
	}
	return nil
}
