package main

import "github.com/Kariqs/netshop-api/commands"

func main() {
	commands.Execute()
}
