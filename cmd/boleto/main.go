// Command boleto decodes Brazilian bank-slip barcodes and codelines, in
// batches, from a scanner stream, or as a Connect/REST service.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
