package main

import "github.com/bernabedev/autogem/cmd"

func main() {
	cmd.Execute()
}
