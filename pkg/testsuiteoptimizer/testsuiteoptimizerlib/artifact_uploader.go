package testsuiteoptimizerlib

import (
	"context"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"

	"github.com/openshift/test-suite-optimizer/pkg/results"
)

//go:generate mockgen -source=artifact_uploader.go -destination=artifact_uploader_mock.go -package=testsuiteoptimizerlib

// ArtifactUploader publishes output files somewhere other processes can read them.
type ArtifactUploader interface {
	Upload(ctx context.Context, name string, content []byte) error
}

type gcsUploader struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSUploader writes artifacts to gs://bucket/prefix/name.
func NewGCSUploader(client *storage.Client, bucket, prefix string) ArtifactUploader {
	return &gcsUploader{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

func (u *gcsUploader) Upload(ctx context.Context, name string, content []byte) error {
	objectName := path.Join(u.prefix, name)
	w := u.client.Bucket(u.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = "text/csv"
	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return results.ForReason(results.ReasonWritingOutput).WithError(err).Errorf("failed to write gs://%s/%s: %v", u.bucket, objectName, err)
	}
	if err := w.Close(); err != nil {
		return results.ForReason(results.ReasonWritingOutput).WithError(err).Errorf("failed to upload gs://%s/%s: %v", u.bucket, objectName, err)
	}
	logrus.WithField("object", fmt.Sprintf("gs://%s/%s", u.bucket, objectName)).Info("Uploaded artifact")
	return nil
}

type dryRunUploader struct {
	location string
	out      io.Writer
}

// NewDryRunUploader describes the uploads it would have made instead of making them.
func NewDryRunUploader(out io.Writer, bucket, prefix string) ArtifactUploader {
	return dryRunUploader{
		location: fmt.Sprintf("gs://%s", path.Join(bucket, prefix)),
		out:      out,
	}
}

func (d dryRunUploader) Upload(ctx context.Context, name string, content []byte) error {
	fmt.Fprintf(d.out, "UPLOAD to %s/%s: %d bytes\n", d.location, name, len(content))
	return nil
}
