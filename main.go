package main

import "github.com/chriserin/pwflow/cmd"

func main() {
	cmd.Execute()
}
