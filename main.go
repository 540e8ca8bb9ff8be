package main

import "github.com/fulmenhq/specex/cmd"

func main() {
	cmd.Execute()
}
