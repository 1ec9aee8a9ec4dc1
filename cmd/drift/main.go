// Package main provides the Drift CLI.
package main

import (
	"fmt"
	"os"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("Drift %s\n", version)
		return
	}

	fmt.Println("Drift - Neural networks and neural ODEs in Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("")
	fmt.Println("Training entry points live under examples/:")
	fmt.Println("  examples/mnist-mlp    MNIST perceptron classifier")
	fmt.Println("  examples/mnist-node   MNIST neural ODE")
}
