/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/longkey1/mdbuddy/cmd"

func main() {
	cmd.Execute()
}
