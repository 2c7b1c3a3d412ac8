package main

import (
	"os"

	"S3Tar/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
