package main

import "github.com/giberode/gib/cmd/gib/command"

func main() {
	command.Execute()
}
