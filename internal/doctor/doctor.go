package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"S3Tar/internal/config"
	"S3Tar/internal/s3"
)

type CheckResult struct {
	Name   string
	OK     bool
	Detail string
}

// Run performs read-only health checks: config shape, bucket reachability,
// and writability of the output directory.
func Run(ctx context.Context, cfg *config.Config, outputDir string) []CheckResult {
	var results []CheckResult

	results = append(results, CheckResult{
		Name:   "config",
		OK:     cfg != nil,
		Detail: "configuration loaded",
	})

	if cfg != nil && cfg.S3 != nil {
		ok, detail := checkS3(ctx, cfg)
		results = append(results, CheckResult{Name: "s3", OK: ok, Detail: detail})
	} else {
		results = append(results, CheckResult{Name: "s3", OK: false, Detail: "s3 not configured"})
	}

	ok, detail := checkOutputDir(outputDir)
	results = append(results, CheckResult{Name: "output dir", OK: ok, Detail: detail})

	return results
}

func checkS3(ctx context.Context, cfg *config.Config) (bool, string) {
	client, err := s3.New(ctx, s3.Options{
		Endpoint:           cfg.S3.Endpoint,
		Region:             cfg.S3.Region,
		AccessKey:          cfg.S3.AccessKey,
		SecretKey:          cfg.S3.SecretKey,
		Bucket:             cfg.S3.Bucket,
		InsecureSkipVerify: cfg.S3.TLS != nil && cfg.S3.TLS.InsecureSkipVerify,
	})
	if err != nil {
		return false, fmt.Sprintf("s3 client init failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.HeadBucket(ctx); err != nil {
		return false, fmt.Sprintf("s3 head bucket failed: %v", err)
	}
	if _, _, err := client.ListPage(ctx, "", nil); err != nil {
		return false, fmt.Sprintf("s3 list failed: %v", err)
	}
	return true, fmt.Sprintf("s3 OK (bucket=%s)", cfg.S3.Bucket)
}

func checkOutputDir(dir string) (bool, string) {
	if dir == "" {
		dir = "."
	}
	probe := filepath.Join(dir, ".s3tar-doctor")
	if err := os.WriteFile(probe, []byte("probe"), 0o644); err != nil {
		return false, fmt.Sprintf("output dir %s not writable: %v", dir, err)
	}
	_ = os.Remove(probe)
	return true, fmt.Sprintf("output dir %s writable", dir)
}
