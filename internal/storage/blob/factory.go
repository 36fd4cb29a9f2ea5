package blob

import (
	"context"
	"fmt"
	"strings"

	"game-data-hub/internal/config"
)

// Open selects the Store named by cfg.Driver. An empty driver means memory.
func Open(ctx context.Context, cfg config.ExportConfig) (Store, error) {
	switch Driver(strings.ToLower(cfg.Driver)) {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverFilesystem:
		return NewFilesystem(cfg.Dir)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Region:    cfg.Region,
			Bucket:    cfg.Bucket,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			PathStyle: cfg.PathStyle,
		})
	case DriverMinio:
		return NewMinio(MinioConfig{
			Endpoint:  cfg.Endpoint,
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			UseSSL:    cfg.UseSSL,
		})
	default:
		return nil, fmt.Errorf("unknown export driver %s", cfg.Driver)
	}
}
