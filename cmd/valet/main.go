package main

import "github.com/joho/godotenv"

func main() {
	// A missing .env is fine; the host environment may already be set up.
	_ = godotenv.Load()
	Execute()
}
