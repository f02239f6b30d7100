package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
)

func main() {
	size := flag.Int("bytes", 32, "key length in bytes: 16, 24 or 32")
	flag.Parse()

	switch *size {
	case 16, 24, 32:
	default:
		fmt.Printf("Error: key length must be 16, 24 or 32, got %d\n", *size)
		os.Exit(1)
	}

	key := make([]byte, *size)
	if _, err := rand.Read(key); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Key: %s\n", hex.EncodeToString(key))
	fmt.Printf("\nAdd to your .env file:\n")
	fmt.Printf("SECRET_KEY=%s\n", hex.EncodeToString(key))
}
