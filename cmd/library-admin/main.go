package main

import "libraryhub/cmd/library-admin/command"

func main() {
	command.Execute()
}
