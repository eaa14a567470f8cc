package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <content file or data dir>...\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, path := range os.Args[1:] {
		validator := &ContentValidator{}
		if err := validator.validatePath(path); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}

	fmt.Println("Content is valid!")
}
