// Command shopctl runs maintenance tasks against the store backends.
package main

import (
	"log"
	"os"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
