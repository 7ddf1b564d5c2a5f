package main

import (
	"log"

	"github.com/tech-arch1tect/accounts/app"
)

func main() {
	a, err := app.NewApp().
		WithAutoConfig().
		WithHTTP().
		Build()
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	a.Run()
}
