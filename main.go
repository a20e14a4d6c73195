package main

import (
	"crop-tracking-system/cmd/server"
)

func main() {
	server.Init()
	server.Run()
}
