package main

import "github.com/Togather-Foundation/citymap/cmd/citymap/cmd"

func main() {
	cmd.Execute()
}
