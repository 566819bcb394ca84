package main

import "github.com/Tiliavir/tlog/cmd"

func main() {
	cmd.Execute()
}
