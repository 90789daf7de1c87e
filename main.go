package main

import "github.com/jsphweid/handel/cmd"

func main() {
	cmd.Execute()
}
