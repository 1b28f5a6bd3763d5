// Command meowmap is the backend for the MeowAfisha events map:
// fetches events from the VK community wall, serves the map API and
// announces new events to Telegram.
package main

import (
	"github.com/meowafisha/meowmap/internal/cli"
)

func main() {
	cli.Execute()
}
