package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"S3Tar/internal/archiver"
	"S3Tar/internal/config"
	"S3Tar/internal/s3"

	"github.com/spf13/cobra"
)

var (
	archivePrefix        string
	archiveOutput        string
	archivePattern       string
	archiveUploadPattern string
	archiveCompression   string
	archiveChunkSizeMB   int64
	archiveNoStrip       bool
	archiveManifest      string
	archivePartSizeMB    int
)

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.Flags().StringVar(&archivePrefix, "prefix", "", "S3 key prefix to archive (empty matches the whole bucket)")
	archiveCmd.Flags().StringVar(&archiveOutput, "output", "", "Write a single archive to this local path")
	archiveCmd.Flags().StringVar(&archivePattern, "pattern", "", "Write chunked archives to local files named by this pattern (one %d, e.g. archive_%d.tar)")
	archiveCmd.Flags().StringVar(&archiveUploadPattern, "upload-pattern", "", "Upload chunked archives back to the bucket under keys named by this pattern (one %d)")
	archiveCmd.Flags().StringVar(&archiveCompression, "compression", "", "Compression mode: tar, gz, bz2, xz, or zst")
	archiveCmd.Flags().Int64Var(&archiveChunkSizeMB, "chunk-size-mb", 0, "Rotate to a new chunk when the next object would push it past this many MB of source data (0 = single chunk)")
	archiveCmd.Flags().BoolVar(&archiveNoStrip, "no-strip-prefix", false, "Keep full object keys as entry names instead of stripping the prefix")
	archiveCmd.Flags().StringVar(&archiveManifest, "manifest", "", "Write a JSON run manifest to this path")
	archiveCmd.Flags().IntVar(&archivePartSizeMB, "part-size-mb", s3.MinPartSizeMB, "Multipart part size for --upload-pattern")
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Archive objects under a prefix into TAR chunks",
	Long:  "Stream all objects under --prefix into a single archive (--output) or into size-bounded chunks (--pattern or --upload-pattern). Entry order matches listing order; a prefix matching nothing produces no output files.",
	RunE:  runArchive,
}

func runArchive(cmd *cobra.Command, args []string) error {
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

	compression := archiveCompression
	chunkSizeMB := archiveChunkSizeMB
	pattern := archivePattern
	if cfg.Archive != nil {
		if compression == "" {
			compression = cfg.Archive.Compression
		}
		if !cmd.Flags().Changed("chunk-size-mb") {
			chunkSizeMB = cfg.Archive.ChunkSizeMB
		}
		if pattern == "" && archiveOutput == "" && archiveUploadPattern == "" {
			pattern = cfg.Archive.OutputPattern
		}
	}
	strip := cfg.Archive.StripPrefixOrDefault()
	if archiveNoStrip {
		strip = false
	}

	targets := 0
	for _, t := range []string{archiveOutput, pattern, archiveUploadPattern} {
		if t != "" {
			targets++
		}
	}
	if targets == 0 {
		return fmt.Errorf("specify --output, --pattern, or --upload-pattern")
	}
	if targets > 1 {
		return fmt.Errorf("--output, --pattern, and --upload-pattern are mutually exclusive")
	}

	format, err := archiver.ParseFormat(compression)
	if err != nil {
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

	a, err := archiver.New(client, archiver.Options{
		Compression:   format,
		StripPrefix:   strip,
		MaxChunkBytes: chunkSizeMB * 1024 * 1024,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	var results []archiver.ChunkResult

	switch {
	case archiveOutput != "":
		count, err := a.ArchiveToFile(ctx, archivePrefix, archiveOutput)
		if err != nil {
			return err
		}
		cmd.Printf("Wrote %s (%d files)\n", archiveOutput, count)
		results = []archiver.ChunkResult{{Filename: archiveOutput, Files: count}}
	case pattern != "":
		results, err = a.ArchiveToFiles(ctx, archivePrefix, pattern)
		if err != nil {
			return err
		}
	default:
		if err := archiver.ValidatePattern(archiveUploadPattern); err != nil {
			return err
		}
		partSize := int64(archivePartSizeMB) * 1024 * 1024
		results, err = a.ArchiveChunked(ctx, archivePrefix, func(index int) (string, io.WriteCloser, error) {
			key := fmt.Sprintf(archiveUploadPattern, index)
			return key, client.NewUploadSink(ctx, key, partSize), nil
		})
		if err != nil {
			return err
		}
	}

	if archiveOutput == "" {
		if len(results) == 0 {
			cmd.Printf("No objects under prefix %q, nothing written\n", archivePrefix)
		}
		for _, r := range results {
			cmd.Printf("Wrote %s (%d files, %d bytes of source data)\n", r.Filename, r.Files, r.Bytes)
		}
	}
	cmd.Printf("Done in %s\n", time.Since(start).Round(time.Millisecond))

	if archiveManifest != "" {
		m := archiver.BuildManifest(client.Bucket(), archivePrefix, format, results, time.Now())
		if err := archiver.WriteManifest(archiveManifest, m); err != nil {
			return err
		}
		cmd.Printf("Manifest written to %s\n", archiveManifest)
	}
	return nil
}
