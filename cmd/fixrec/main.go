/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/gonap/gava/cmd/fixrec/cmd"

func main() {
	cmd.Execute()
}
