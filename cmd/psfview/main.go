package main

import "github.com/psfguard/psfview/cmd/psfview/cmd"

func main() {
	cmd.Execute()
}
