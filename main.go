package main

import "github.com/jsphweid/phrasekit/cmd"

func main() {
	cmd.Execute()
}
