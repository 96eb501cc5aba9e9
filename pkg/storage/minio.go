// Package storage 提供了与对象存储服务（MinIO）交互的功能。
package storage

import (
	"context"
	"fmt"
	"time"

	"farm-assist-go/internal/config"
	"farm-assist-go/pkg/log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ImageStore 为内容图片生成临时访问地址。
type ImageStore interface {
	PresignedURL(ctx context.Context, objectKey string) (string, error)
}

type minioImageStore struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

// NewMinIOClient 创建 MinIO 客户端。指定 Region 后签名不需要请求服务端。
func NewMinIOClient(cfg config.MinIOConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化 MinIO 客户端失败: %w", err)
	}
	return client, nil
}

// NewImageStore 基于 MinIO 客户端创建图片存储。
func NewImageStore(client *minio.Client, cfg config.MinIOConfig) ImageStore {
	expiry := time.Duration(cfg.PresignExpiryMinute) * time.Minute
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &minioImageStore{client: client, bucket: cfg.BucketName, expiry: expiry}
}

// EnsureBucket 检查存储桶是否存在，不存在则创建。
func EnsureBucket(ctx context.Context, client *minio.Client, bucketName string) error {
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("检查 MinIO 存储桶失败: %w", err)
	}
	if exists {
		log.Infof("存储桶 '%s' 已存在", bucketName)
		return nil
	}
	log.Infof("存储桶 '%s' 不存在，正在创建...", bucketName)
	if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("创建 MinIO 存储桶失败: %w", err)
	}
	log.Infof("存储桶 '%s' 创建成功", bucketName)
	return nil
}

// PresignedURL generates a presigned GET URL for the object.
func (s *minioImageStore) PresignedURL(ctx context.Context, objectKey string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, s.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("生成预签名地址失败: %w", err)
	}
	return u.String(), nil
}
