package feed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/domain"
	"github.com/Wharf-Street-Studios/Epiko-AI-Studio/internal/store"
)

func newTestFeed() *Service {
	return NewService(store.NewMemoryStore())
}

func TestLikeIsIdempotent(t *testing.T) {
	svc := newTestFeed()

	svc.Like("u1", "post-1")
	once := svc.LikeCount("u1", "post-1", 234)

	svc.Like("u1", "post-1")
	twice := svc.LikeCount("u1", "post-1", 234)

	assert.True(t, svc.IsLiked("u1", "post-1"))
	assert.Equal(t, int64(235), once)
	assert.Equal(t, once, twice, "liking twice must not double-increment")
}

func TestUnlikeRestoresSeedCount(t *testing.T) {
	svc := newTestFeed()

	svc.Like("u1", "post-1")
	svc.Unlike("u1", "post-1")

	assert.False(t, svc.IsLiked("u1", "post-1"))
	assert.Equal(t, int64(234), svc.LikeCount("u1", "post-1", 234))
}

func TestUnlikeWithoutLikeStaysAtSeed(t *testing.T) {
	svc := newTestFeed()

	svc.Unlike("u1", "post-1")
	assert.Equal(t, int64(234), svc.LikeCount("u1", "post-1", 234))
	assert.False(t, svc.IsLiked("u1", "post-1"))
}

func TestLikeCountNeverNegative(t *testing.T) {
	svc := newTestFeed()
	assert.Equal(t, int64(0), svc.LikeCount("u1", "post-1", 0))
	svc.Unlike("u1", "post-1")
	assert.Equal(t, int64(0), svc.LikeCount("u1", "post-1", 0))
}

func TestSaveToggle(t *testing.T) {
	svc := newTestFeed()

	svc.Save("u1", "post-2")
	svc.Save("u1", "post-2")
	assert.True(t, svc.IsSaved("u1", "post-2"))

	svc.Unsave("u1", "post-2")
	assert.False(t, svc.IsSaved("u1", "post-2"))
}

func TestCommentsAreAdditive(t *testing.T) {
	ctx := context.Background()
	svc := newTestFeed()

	assert.Equal(t, int64(12), svc.CommentCount("u1", "post-1", 12))

	c, err := svc.AddComment(ctx, "u1", "post-1", "love this")
	require.NoError(t, err)
	assert.Equal(t, "post-1", c.PostID)
	assert.NotEmpty(t, c.ID)

	_, err = svc.AddComment(ctx, "u1", "post-1", "me too")
	require.NoError(t, err)

	assert.Equal(t, int64(14), svc.CommentCount("u1", "post-1", 12))
}

func TestAddCommentUnknownPost(t *testing.T) {
	svc := newTestFeed()
	_, err := svc.AddComment(context.Background(), "u1", "nope", "hi")
	require.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestInteractionsAreScopedPerUser(t *testing.T) {
	svc := newTestFeed()

	svc.Like("alice", "post-1")
	assert.True(t, svc.IsLiked("alice", "post-1"))
	assert.False(t, svc.IsLiked("bob", "post-1"))
	assert.Equal(t, int64(234), svc.LikeCount("bob", "post-1", 234))
}

func TestListPostsComputesViewCounts(t *testing.T) {
	ctx := context.Background()
	svc := newTestFeed()

	svc.Like("u1", "post-1")
	svc.Save("u1", "post-3")

	views, err := svc.ListPosts(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, views, 4)

	byID := map[string]domain.PostView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	assert.True(t, byID["post-1"].Liked)
	assert.Equal(t, int64(235), byID["post-1"].LikeCount)
	assert.True(t, byID["post-3"].Saved)
	assert.Equal(t, int64(890), byID["post-3"].LikeCount)
}
