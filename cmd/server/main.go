package main

import "github.com/conduit/cmd/server/commands"

func main() {
	commands.Execute()
}
