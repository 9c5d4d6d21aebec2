package main

import "github.com/qrsmith/qrsmith/internal/cmd"

func main() {
	cmd.Execute()
}
