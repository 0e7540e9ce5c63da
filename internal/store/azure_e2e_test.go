//go:build e2e

package store

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/i474232898/temperature-capture/internal/weather"
)

// Well-known Azurite development account.
const (
	azuriteAccount = "devstoreaccount1"
	azuriteKey     = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTBtr/KBHBeksoGMGw=="
)

func TestAzureBlobStore_Azurite(t *testing.T) {
	connStr := startAzurite(t)
	ctx := context.Background()

	client, err := azblob.NewClientFromConnectionString(connStr, nil)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if _, err := client.CreateContainer(ctx, "readings", nil); err != nil {
		t.Fatalf("create container: %v", err)
	}

	s := NewAzureBlobStore(AzureConfig{ConnectionString: connStr, Container: "readings"})
	pub := weather.NewPublisher(s, discardLogger())

	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for _, temp := range []float64{70, 71} {
		if _, err := pub.Publish(ctx, weather.Reading{Timestamp: ts, City: "Atlanta", State: "GA", TemperatureF: temp}); err != nil {
			t.Fatalf("Publish(%v): %v", temp, err)
		}
	}

	pager := client.NewListBlobsFlatPager("readings", &azblob.ListBlobsFlatOptions{Prefix: to.Ptr(weather.ObjectPrefix)})
	var names []string
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		for _, item := range page.Segment.BlobItems {
			names = append(names, *item.Name)
			if ct := item.Properties.ContentType; ct == nil || *ct != "application/json" {
				t.Errorf("content type = %v, want application/json", ct)
			}
		}
	}
	if len(names) != 1 || names[0] != "atlanta-temperature/2024-01-01T12-00-00-000Z.json" {
		t.Fatalf("blobs = %v, want exactly the one timestamped object", names)
	}

	resp, err := client.DownloadStream(ctx, "readings", names[0], nil)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var back weather.Reading
	if err := back.UnmarshalJSON(body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.TemperatureF != 71 {
		t.Errorf("stored temperature = %v, want 71 from the second upload", back.TemperatureF)
	}
}

func startAzurite(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "mcr.microsoft.com/azure-storage/azurite:latest",
		Cmd:          []string{"azurite-blob", "--blobHost", "0.0.0.0", "--skipApiVersionCheck"},
		ExposedPorts: []string{"10000/tcp"},
		WaitingFor:   wait.ForListeningPort("10000/tcp").WithStartupTimeout(60 * time.Second),
	}

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start azurite container: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Terminate(ctx)
	})

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := c.MappedPort(ctx, "10000/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	return fmt.Sprintf(
		"DefaultEndpointsProtocol=http;AccountName=%s;AccountKey=%s;BlobEndpoint=http://%s:%s/%s;",
		azuriteAccount, azuriteKey, host, port.Port(), azuriteAccount,
	)
}
