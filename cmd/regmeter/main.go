package main

import "github.com/regmeter/regmeter/internal/cli"

func main() {
	cli.Execute()
}
