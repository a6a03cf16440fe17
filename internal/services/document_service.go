package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DocumentService stores rendered invoice PDFs in object storage.
type DocumentService interface {
	UploadInvoicePDF(ctx context.Context, bucketName string, tenantID, invoiceID uuid.UUID, pdf []byte) error
	GetInvoicePDFURL(ctx context.Context, bucketName string, tenantID, invoiceID uuid.UUID, expiry time.Duration) (string, error)
	DeleteInvoicePDF(ctx context.Context, bucketName string, tenantID, invoiceID uuid.UUID) error
	EnsureBucketExists(ctx context.Context, bucketName string) error
}

type minioDocumentService struct {
	client *minio.Client
}

func NewMinioDocumentService(endpoint, accessKey, secretKey string, useSSL bool) (DocumentService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioDocumentService{client: client}, nil
}

func invoiceObjectName(tenantID, invoiceID uuid.UUID) string {
	return fmt.Sprintf("%s/%s.pdf", tenantID, invoiceID)
}

func (m *minioDocumentService) UploadInvoicePDF(ctx context.Context, bucketName string, tenantID, invoiceID uuid.UUID, pdf []byte) error {
	_, err := m.client.PutObject(ctx, bucketName, invoiceObjectName(tenantID, invoiceID), bytes.NewReader(pdf), int64(len(pdf)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	return err
}

func (m *minioDocumentService) GetInvoicePDFURL(ctx context.Context, bucketName string, tenantID, invoiceID uuid.UUID, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, bucketName, invoiceObjectName(tenantID, invoiceID), expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioDocumentService) DeleteInvoicePDF(ctx context.Context, bucketName string, tenantID, invoiceID uuid.UUID) error {
	return m.client.RemoveObject(ctx, bucketName, invoiceObjectName(tenantID, invoiceID), minio.RemoveObjectOptions{})
}

func (m *minioDocumentService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	found, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
	}
	return nil
}
