package main

import "github.com/itsmostafa/specindex/cmd"

func main() {
	cmd.Execute()
}
