package main

import (
	"os"

	"telegram-team-bot/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
