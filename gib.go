package main

import "github.com/giberode/gib/api"

func main() {
	api.MainLoop()
}
