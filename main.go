package main

import "gamedb/cmd"

func main() {
	cmd.Execute()
}
