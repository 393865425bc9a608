package main

import "github.com/valpere/voxlate/cmd"

func main() {
	cmd.Execute()
}
