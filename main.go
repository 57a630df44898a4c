package main

import (
	"os"

	"github.com/tokenmint/tokenmint/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
