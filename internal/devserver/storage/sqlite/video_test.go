package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/havelockadmin/internal/devserver/storage"
	"github.com/iudanet/havelockadmin/pkg/api"
)

func TestVideoStorage(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i, title := range []string{"Intro", "Behind the scenes", "Highlights"} {
		v := &api.Video{
			ID:        uuid.New().String(),
			Title:     title,
			Video:     api.VideoInfo{URL: "/uploads/" + title, Type: "video/mp4"},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base,
		}
		require.NoError(t, s.CreateVideo(ctx, v))
		ids = append(ids, v.ID)
	}

	videos, total, err := s.ListVideos(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, videos, 2)
	assert.Equal(t, "Highlights", videos[0].Title)
	assert.Equal(t, "video/mp4", videos[0].Video.Type)

	require.NoError(t, s.DeleteVideo(ctx, ids[2]))
	assert.ErrorIs(t, s.DeleteVideo(ctx, ids[2]), storage.ErrVideoNotFound)

	videos, total, err = s.ListVideos(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Behind the scenes", videos[0].Title)
}
