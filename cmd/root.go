package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "s3tar",
	Short: "Stream S3 objects under a prefix into TAR archives",
	Long:  "S3Tar streams every object under an S3 key prefix into one or more TAR archives, optionally compressed and split into size-bounded chunk files, without buffering whole objects in memory.",
}

func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}
