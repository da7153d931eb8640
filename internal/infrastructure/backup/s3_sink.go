// Package backup sube respaldos JSON a un almacenamiento compatible con S3 (AWS S3 o MinIO).
package backup

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appinventory "github.com/jhoicas/stocksync/internal/application/inventory"
)

// Config parámetros del bucket. Endpoint y credenciales son opcionales
// (sin credenciales se usa la cadena por defecto del SDK).
type Config struct {
	Region          string
	Bucket          string
	Prefix          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// S3Sink implementa inventory.BackupSink.
type S3Sink struct {
	client *s3.Client
	bucket string
	prefix string
}

var _ appinventory.BackupSink = (*S3Sink)(nil)

// NewS3Sink construye el cliente S3 a partir de la configuración.
func NewS3Sink(ctx context.Context, cfg Config, optFns ...func(*s3.Options)) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("backup: bucket requerido")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("backup: configuración aws: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}, optFns...)...)
	return &S3Sink{client: client, bucket: cfg.Bucket, prefix: strings.Trim(cfg.Prefix, "/")}, nil
}

// Put sube el documento como application/json bajo prefix/key.
func (s *S3Sink) Put(ctx context.Context, key string, body []byte) error {
	objectKey := key
	if s.prefix != "" {
		objectKey = s.prefix + "/" + key
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("backup: put %s: %w", objectKey, err)
	}
	return nil
}
