package main

import "webcarros-backend/cmd"

func main() {
	cmd.Run()
}
