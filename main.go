/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/alternativa-centar/site/cmd"

func main() {
	cmd.Execute()
}
