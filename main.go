package main

import "tutorbot/cmd"

func main() {
	cmd.Execute()
}
