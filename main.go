package main

import "github.com/substream-labs/ms-go-recurring-payments/cmd"

func main() {
	cmd.Execute()
}
