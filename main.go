package main

import "github.com/blogicum/api-go/cmd"

func main() {
	cmd.Execute()
}
