package main

import "github.com/notargets/gasdisk/cmd"

func main() {
	cmd.Execute()
}
