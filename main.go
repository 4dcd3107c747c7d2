package main

import "github.com/verizip/verizip/cmd"

func main() {
	cmd.Execute()
}
