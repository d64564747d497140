package main

import "points-feed/cmd"

func main() {
	cmd.Execute()
}
