package post

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeAndUnlike(t *testing.T) {
	p := &Post{ID: "p1"}

	require.NoError(t, p.Like("u1"))
	require.NoError(t, p.Like("u2"))
	assert.Equal(t, []Like{{UserID: "u2"}, {UserID: "u1"}}, p.Likes)
	assert.ErrorIs(t, p.Like("u1"), ErrAlreadyLiked)

	require.NoError(t, p.Unlike("u2"))
	assert.Equal(t, []Like{{UserID: "u1"}}, p.Likes)
	assert.ErrorIs(t, p.Unlike("u2"), ErrNotLiked)
}

func TestComments(t *testing.T) {
	p := &Post{ID: "p1"}
	p.AddComment(Comment{ID: "c1", UserID: "u1", Text: "first"})
	p.AddComment(Comment{ID: "c2", UserID: "u2", Text: "second"})

	require.Len(t, p.Comments, 2)
	assert.Equal(t, "c2", p.Comments[0].ID)

	c, ok := p.FindComment("c1")
	require.True(t, ok)
	assert.Equal(t, "u1", c.UserID)

	_, ok = p.FindComment("nope")
	assert.False(t, ok)

	require.NoError(t, p.RemoveComment("c2"))
	assert.Len(t, p.Comments, 1)
	assert.ErrorIs(t, p.RemoveComment("c2"), ErrCommentNotFound)
}
