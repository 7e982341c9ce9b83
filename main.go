package main

import "github.com/vietdv277/kse/cmd"

func main() {
	cmd.Execute()
}
