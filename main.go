package main

import (
	"os"

	"github.com/passgate/passgate/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
