package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/workboard/internal/common"
	"github.com/dmitrijs2005/workboard/internal/logging"
	"github.com/dmitrijs2005/workboard/internal/server/auth"
	sc "github.com/dmitrijs2005/workboard/internal/server/config"
	"github.com/dmitrijs2005/workboard/internal/server/repositories/listings"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// LogoService hands out presigned object-storage URLs for company logos.
// Clients upload the image directly to the bucket; only the storage key is
// recorded on the listing.
type LogoService struct {
	repo   listings.Repository
	config *sc.Config
	logger logging.Logger
}

func NewLogoService(repo listings.Repository, config *sc.Config, log logging.Logger) *LogoService {
	return &LogoService{
		repo:   repo,
		config: config,
		logger: log.With("module", "logo_service"),
	}
}

func logoStorageKey(listingID int64) string {
	return fmt.Sprintf("logos/%d/%v", listingID, uuid.New())
}

func (s *LogoService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a presigned PUT URL the owner of listingID can use
// to upload the company logo. The fresh storage key is recorded on the
// listing immediately; the URL expires after 15 minutes.
func (s *LogoService) PresignUpload(ctx context.Context, sess Session, listingID int64) (string, string, error) {
	listing, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		return "", "", err
	}
	if !auth.IsOwner(sess.UserID, listing.UserID) {
		s.logger.Warn(ctx, "logo upload forbidden",
			"listing_id", listingID, "owner_id", listing.UserID, "user_id", sess.UserID)
		return "", "", common.ErrorForbidden
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := logoStorageKey(listingID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", err
	}

	// The key is recorded before the client uploads. Until a PUT to the URL
	// completes, the listing points at an object that does not exist yet; an
	// abandoned upload stays dangling until the next issued key replaces it.
	if err := s.repo.SetLogoKey(ctx, listingID, key); err != nil {
		return "", "", err
	}

	s.logger.Info(ctx, "logo upload URL issued", "listing_id", listingID, "key", key)
	return key, req.URL, nil
}

// PresignDownload returns a presigned GET URL for the listing's logo, or
// common.ErrorNotFound when the listing has none.
func (s *LogoService) PresignDownload(ctx context.Context, listingID int64) (string, error) {
	listing, err := s.repo.FindByID(ctx, listingID)
	if err != nil {
		return "", err
	}
	if listing.LogoKey == nil {
		return "", common.ErrorNotFound
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    listing.LogoKey,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
