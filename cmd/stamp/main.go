package main

import "github.com/stamp/cmd/stamp/cmd"

func main() {
	cmd.Execute()
}
