package blob

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// telemetryID is appended to the SDK User-Agent on every request.
const telemetryID = "storagegateway"

// NewAzureClient builds a Blob service client for endpointURL authenticated
// with DefaultAzureCredential. In a cluster with workload identity enabled the
// credential chain picks up the projected service account token; elsewhere it
// falls back to environment, managed identity or CLI credentials. No secret
// is ever read by the gateway itself.
func NewAzureClient(endpointURL string) (*azblob.Client, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("creating Azure credential: %w", err)
	}

	client, err := azblob.NewClient(endpointURL, cred, clientOptions())
	if err != nil {
		return nil, fmt.Errorf("creating Azure Blob client: %w", err)
	}
	return client, nil
}

func clientOptions() *azblob.ClientOptions {
	return &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Telemetry: policy.TelemetryOptions{ApplicationID: telemetryID},
		},
	}
}

// AzureStore is a Store backed by one Azure Blob Storage container.
// Errors from the SDK are returned unwrapped so their text reaches clients as-is.
type AzureStore struct {
	client    *azblob.Client
	container string
}

// NewAzureStore binds client to containerName.
func NewAzureStore(client *azblob.Client, containerName string) *AzureStore {
	return &AzureStore{client: client, container: containerName}
}

func (s *AzureStore) GetContainerProperties(ctx context.Context) error {
	_, err := s.client.ServiceClient().NewContainerClient(s.container).GetProperties(ctx, nil)
	return err
}

func (s *AzureStore) ListBlobs(ctx context.Context) ([]BlobInfo, error) {
	results := make([]BlobInfo, 0)

	pager := s.client.NewListBlobsFlatPager(s.container, nil)
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		if resp.Segment == nil {
			continue
		}
		for _, item := range resp.Segment.BlobItems {
			if item == nil || item.Name == nil {
				continue
			}
			info := BlobInfo{Name: *item.Name}
			if props := item.Properties; props != nil {
				if props.ContentLength != nil {
					info.Size = *props.ContentLength
				}
				if props.LastModified != nil {
					modified := props.LastModified.UTC()
					info.LastModified = &modified
				}
				info.ContentType = props.ContentType
			}
			results = append(results, info)
		}
	}
	return results, nil
}

// UploadBlob issues an unconditional Put Blob, which replaces an existing blob
// of the same name.
func (s *AzureStore) UploadBlob(ctx context.Context, name string, content []byte) error {
	_, err := s.client.UploadBuffer(ctx, s.container, name, content, nil)
	return err
}

var _ Store = (*AzureStore)(nil)
