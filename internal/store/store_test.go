// SPDX-License-Identifier: MIT
package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedkit/mediascan/internal/mediarss"
	"github.com/feedkit/mediascan/internal/scan"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "index", "media.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})
	return st
}

func TestOpenAndMigrate(t *testing.T) {
	st := openTestStore(t)

	n, err := st.CountMedia(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecordMedia_RoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	docID, err := st.RecordDocument(ctx, "feeds/example.xml")
	require.NoError(t, err)

	item := scan.Item{Title: "An item", GUID: "guid-1"}
	obj := mediarss.MediaObject{
		Title:   &mediarss.Text{Value: "Clip", ContentType: mediarss.TextPlain},
		Content: &mediarss.Content{URL: "http://example.org/v.mp4", ContentType: "video/mp4"},
		Credits: []mediarss.Credit{{Entity: "Jane Doe"}},
	}

	_, err = st.RecordMedia(ctx, docID, item, obj)
	require.NoError(t, err)

	n, err := st.CountMedia(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := st.MediaByURL(ctx, "http://example.org/v.mp4")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, obj, got[0])
}

func TestRecordMedia_WithoutContent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	docID, err := st.RecordDocument(ctx, "feeds/example.xml")
	require.NoError(t, err)

	// A media object may legitimately carry no content record at all.
	obj := mediarss.MediaObject{Credits: []mediarss.Credit{{Entity: "Someone"}}}
	_, err = st.RecordMedia(ctx, docID, scan.Item{}, obj)
	require.NoError(t, err)

	got, err := st.MediaByURL(ctx, "http://example.org/absent")
	require.NoError(t, err)
	assert.Empty(t, got)
}
