package cmd

import (
	"context"

	"S3Tar/internal/archiver"
	"S3Tar/internal/config"
	"S3Tar/internal/s3"

	"github.com/spf13/cobra"
)

var listPrefix string

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listPrefix, "prefix", "", "S3 key prefix to list (empty matches the whole bucket)")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List archivable objects under a prefix",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	v, err := config.Load(false)
	if err != nil {
		return err
	}
	cfg, err := config.Unmarshal(v)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	client, err := s3.New(ctx, s3.Options{
		Endpoint:           cfg.S3.Endpoint,
		Region:             cfg.S3.Region,
		AccessKey:          cfg.S3.AccessKey,
		SecretKey:          cfg.S3.SecretKey,
		Bucket:             cfg.S3.Bucket,
		InsecureSkipVerify: cfg.S3.TLS != nil && cfg.S3.TLS.InsecureSkipVerify,
	})
	if err != nil {
		return err
	}

	records, err := archiver.ListObjects(ctx, client, listPrefix)
	if err != nil {
		return err
	}

	var total int64
	for _, rec := range records {
		cmd.Printf("%12d  %s\n", rec.Size, rec.Key)
		total += rec.Size
	}
	cmd.Printf("%d objects, %d bytes\n", len(records), total)
	return nil
}
