package main

import "antmenu/internal/cli"

func main() {
	cli.Execute()
}
