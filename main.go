package main

import "github.com/docyard/docyard/cmd"

func main() {
	cmd.Execute()
}
