package main

import "github.com/authify-io/authify/cmd"

func main() {
	cmd.Execute()
}
