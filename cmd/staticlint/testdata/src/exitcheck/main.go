package main

import (
	"log"
	"os"
)

func main() {
	defer log.Println("flushed")

	if len(os.Args) > 2 {
		log.Fatalf("too many arguments: %d", len(os.Args)) // want "log.Fatalf in main.main skips deferred cleanup"
	}
	go func() {
		os.Exit(3)
	}()
	os.Exit(1) // want "os.Exit in main.main skips deferred cleanup"
}
