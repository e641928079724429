package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tusk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeGateway implements the blob storage HTTP API in memory.
type fakeGateway struct {
	blobs   map[string][]byte
	nextID  int
	uploads [][]byte // raw part payloads, in order
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{blobs: map[string][]byte{}}
}

func (g *fakeGateway) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /blob/publish", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)

		g.nextID++
		id := fmt.Sprintf("blob-%d", g.nextID)
		g.blobs[id] = data
		g.uploads = append(g.uploads, data)
		json.NewEncoder(w).Encode(map[string]string{"blobId": id})
	})
	mux.HandleFunc("/blob/{id}", func(w http.ResponseWriter, r *http.Request) {
		data, ok := g.blobs[r.PathValue("id")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	})
	return mux
}

func newTestClient(t *testing.T) (*WalrusClient, *fakeGateway) {
	t.Helper()
	gw := newFakeGateway()
	srv := httptest.NewServer(gw.handler())
	t.Cleanup(srv.Close)
	return NewWalrusClient(srv.URL, srv.URL, "", zap.NewNop()), gw
}

func TestUploadBlob(t *testing.T) {
	c, gw := newTestClient(t)

	id, err := c.UploadBlob(context.Background(), []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "blob-1", id)
	assert.Equal(t, []byte("png-bytes"), gw.blobs["blob-1"])
}

func TestUploadBlobFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "over quota", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewWalrusClient(srv.URL, srv.URL, "", zap.NewNop())
	_, err := c.UploadBlob(context.Background(), []byte("x"), "image/png")
	assert.ErrorIs(t, err, ErrUploadFailed)
}

func TestStoreMetadataCanonicalEncoding(t *testing.T) {
	c, gw := newTestClient(t)

	md := func() *model.Metadata {
		return &model.Metadata{
			Name:        "Pixel Art #1",
			Description: "test",
			Image:       "https://gw/blob/img",
			Attributes: []model.Attribute{
				{TraitType: "Background", Value: "Blue"},
				{TraitType: "Character", Value: "Robot"},
			},
			Creator:   "0xabc",
			CreatedAt: "2024-01-01T00:00:00Z",
		}
	}

	_, err := c.StoreMetadata(context.Background(), md())
	require.NoError(t, err)
	_, err = c.StoreMetadata(context.Background(), md())
	require.NoError(t, err)

	// Equal input must produce byte-identical payloads.
	require.Len(t, gw.uploads, 2)
	assert.Equal(t, gw.uploads[0], gw.uploads[1])

	// Attribute insertion order survives.
	var decoded model.Metadata
	require.NoError(t, json.Unmarshal(gw.uploads[0], &decoded))
	require.Len(t, decoded.Attributes, 2)
	assert.Equal(t, "Background", decoded.Attributes[0].TraitType)
	assert.Equal(t, "Character", decoded.Attributes[1].TraitType)
}

func TestRetrieveMetadata(t *testing.T) {
	c, _ := newTestClient(t)

	original := &model.Metadata{
		Name:       "Pixel Art #1",
		Attributes: []model.Attribute{{TraitType: "Background", Value: "Blue"}},
	}
	id, err := c.StoreMetadata(context.Background(), original)
	require.NoError(t, err)

	got, err := c.RetrieveMetadata(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Pixel Art #1", got.Name)

	t.Run("not found", func(t *testing.T) {
		_, err := c.RetrieveMetadata(context.Background(), "no-such-blob")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPublicURL(t *testing.T) {
	// No server behind it: PublicURL must not touch the network.
	c := NewWalrusClient("http://publisher.invalid", "https://gateway.example", "", zap.NewNop())

	first := c.PublicURL("abc123")
	second := c.PublicURL("abc123")
	assert.Equal(t, "https://gateway.example/blob/abc123", first)
	assert.Equal(t, first, second)
}

func TestCheckAvailability(t *testing.T) {
	c, _ := newTestClient(t)

	id, err := c.UploadBlob(context.Background(), []byte("x"), "")
	require.NoError(t, err)

	assert.True(t, c.CheckAvailability(context.Background(), id))
	assert.False(t, c.CheckAvailability(context.Background(), "absent"))

	t.Run("transport error reads as unavailable", func(t *testing.T) {
		dead := NewWalrusClient("http://127.0.0.1:1", "http://127.0.0.1:1", "", zap.NewNop())
		assert.False(t, dead.CheckAvailability(context.Background(), id))
	})
}
