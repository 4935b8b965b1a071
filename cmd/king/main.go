package main

import (
	"os"

	"k8s.io/klog/v2"

	"king/cmd/king/commands"
)

func main() {
	err := commands.Execute()
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
