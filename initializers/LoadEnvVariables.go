package initializers

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
)

// LoadEnvVariables loads a .env file from the working directory if there is
// one. Variables already present in the environment win.
func LoadEnvVariables(files ...string) {
	err := godotenv.Load(files...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Error loading .env file: %v", err)
	}
}
