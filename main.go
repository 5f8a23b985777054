package main

import "rollup-graphx/cmd"

func main() {
	cmd.Execute()
}
