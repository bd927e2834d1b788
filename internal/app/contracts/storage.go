package contracts

import "context"

type StorageRepository interface {
	UploadObject(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}
