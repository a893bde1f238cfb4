package main

import "github.com/dylanstetts/getTeamsRecordings/cmd"

func main() {
	cmd.Execute()
}
