package main

import "github.com/audiopipe/spdiftx/cmd"

func main() {
	cmd.Execute()
}
