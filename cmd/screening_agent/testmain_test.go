package main

import (
	"os"
	"testing"

	"github.com/joho/godotenv"
)

// TestMain loads .env before the CLI tests so local runs pick up mailbox
// and database settings. A missing file is fine (CI environment).
func TestMain(m *testing.M) {
	_ = godotenv.Load()

	os.Exit(m.Run())
}
