package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count    int64
		size     int
		expected int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{120, 10, 12},
		{120, 7, 18},
		{5, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, TotalPages(tt.count, tt.size), "count=%d size=%d", tt.count, tt.size)
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid())
	}
	assert.False(t, Category("Cooking").Valid())
	assert.False(t, Category("technology").Valid())
}

func TestGroupByCategory(t *testing.T) {
	forums := []Forum{
		{Slug: "physics", Category: CategoryScience},
		{Slug: "web-development", Category: CategoryTechnology},
		{Slug: "biology", Category: CategoryScience},
	}

	groups := GroupByCategory(forums)

	assert.Len(t, groups, 2)
	assert.Equal(t, "physics", groups[CategoryScience][0].Slug)
	assert.Equal(t, "biology", groups[CategoryScience][1].Slug)
	assert.Empty(t, groups[CategoryArt])
}

func TestUserJSONOmitsPasswordHash(t *testing.T) {
	user := User{ID: "u1", Username: "alice", PasswordHash: "secret", Role: RoleUser}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":"u1","username":"alice","role":"user"}`, string(data))
}

func TestPostJSONUsesWireNames(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	post := Post{ID: "p1", ForumID: "f1", Number: 3, Title: "t", Content: "c", Tags: []string{"go"}, AuthorID: "u1", CreatedAt: created}

	data, err := json.Marshal(post)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "f1", fields["forumId"])
	assert.Equal(t, float64(3), fields["number"])
	assert.Equal(t, "u1", fields["authorId"])
	assert.Nil(t, fields["updatedAt"])
	assert.Contains(t, fields, "updatedAt")
}
