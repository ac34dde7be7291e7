package main

import "signin-portal/cmd/portalctl/cmd"

func main() {
	cmd.Execute()
}
