package main

import "github.com/jmehdipour/points-claimer/cmd"

func main() {
	cmd.Execute()
}
