/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/ssargent/gersemi/cmd/gersemi/cmd"
)

func main() {
	cmd.Execute()
}
