package main

import (
	"os"

	"github.com/quizhaus/quizhaus/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
