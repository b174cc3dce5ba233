package blob

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()

	fsStore, err := Open(ctx, Config{FSRoot: filepath.Join(t.TempDir(), "blobs")})
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, fsStore.Driver())

	mem, err := Open(ctx, Config{Driver: DriverMemory, BaseURL: "/files"})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, mem.Driver())
	assert.Equal(t, "/files/a/b.txt", mem.URL("a/b.txt"))

	s3Store, err := Open(ctx, Config{Driver: DriverS3, S3: S3Config{Bucket: "b", AccessKeyID: "k", SecretAccessKey: "s"}})
	require.NoError(t, err)
	assert.Equal(t, DriverS3, s3Store.Driver())

	_, err = Open(ctx, Config{Driver: "ftp"})
	require.ErrorContains(t, err, "unknown blob driver")
}

func TestNewKeySanitisesFilename(t *testing.T) {
	key := NewKey("inspections", `C:\Users\ana\Site Photo (1).JPG`)
	parts := strings.SplitN(key, "/", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, "inspections", parts[0])
	assert.True(t, strings.HasSuffix(parts[1], "-Site_Photo_1_.JPG"), parts[1])
	assert.Len(t, parts[1], 36+1+len("Site_Photo_1_.JPG"))

	assert.True(t, strings.HasSuffix(NewKey("/laws/", "../.."), "-file"))
	assert.NotEqual(t, NewKey("x", "a"), NewKey("x", "a"))
}

func TestMemoryAndMockStoresRoundTripURLs(t *testing.T) {
	ctx := context.Background()
	for _, store := range []Store{NewMemory(), NewMockS3ForTests()} {
		info, err := store.Put(ctx, "claims/k-doc.pdf", bytes.NewReader([]byte("pdf")), PutOptions{ContentType: "application/pdf"})
		require.NoError(t, err, store.Driver())
		key, ok := store.KeyFromURL(info.URL)
		require.True(t, ok, store.Driver())
		assert.Equal(t, "claims/k-doc.pdf", key)
	}
}
