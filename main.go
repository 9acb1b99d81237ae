package main

import "github.com/andyleejordan/DSC/cmd"

func main() {
	cmd.Execute()
}
