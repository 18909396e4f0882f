package main

import (
	"os"

	"github.com/coachkit/rulekeeper/cmd/rulekeeper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
