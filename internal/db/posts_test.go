package db

import (
	"context"
	"testing"
	"time"

	"github.com/postline/postline/internal/models"
)

func seedPost(t *testing.T, posts *PostRepository, authorID int64, text string) *models.Post {
	t.Helper()

	post := &models.Post{
		Text:     text,
		PubDate:  time.Now().UTC(),
		AuthorID: authorID,
	}
	if err := posts.Create(context.Background(), post, nil); err != nil {
		t.Fatalf("failed to seed post %q: %v", text, err)
	}
	return post
}

func TestFeedListsOnlyFollowedAuthors(t *testing.T) {
	repo := openTestDB(t)
	posts := NewPostRepository(repo)
	follows := NewFollowRepository(repo)
	ctx := context.Background()

	reader := seedUser(t, repo, "reader")
	followed := seedUser(t, repo, "followed")
	stranger := seedUser(t, repo, "stranger")

	seedPost(t, posts, followed.ID, "первый пост")
	seedPost(t, posts, followed.ID, "второй пост")
	seedPost(t, posts, stranger.ID, "чужой пост")

	if err := follows.Follow(ctx, reader.ID, followed.ID); err != nil {
		t.Fatalf("follow failed: %v", err)
	}

	feed := PostFilter{FeedUserID: reader.ID}

	count, err := posts.Count(ctx, feed)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("feed Count = %d, want 2", count)
	}

	listed, err := posts.List(ctx, feed, 0, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("feed returned %d posts, want 2", len(listed))
	}
	for _, p := range listed {
		if p.AuthorID != followed.ID {
			t.Errorf("feed contains post %d by author %d, want only author %d", p.ID, p.AuthorID, followed.ID)
		}
	}
}

func TestFeedEmptyWhenFollowingNoOne(t *testing.T) {
	repo := openTestDB(t)
	posts := NewPostRepository(repo)
	ctx := context.Background()

	reader := seedUser(t, repo, "reader")
	author := seedUser(t, repo, "author")
	seedPost(t, posts, author.ID, "пост без подписчиков")

	listed, err := posts.List(ctx, PostFilter{FeedUserID: reader.ID}, 0, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("feed returned %d posts for a user with no follows, want 0", len(listed))
	}
}

func TestCreateReusesExistingTag(t *testing.T) {
	repo := openTestDB(t)
	posts := NewPostRepository(repo)
	ctx := context.Background()

	author := seedUser(t, repo, "author")

	first := &models.Post{Text: "один", PubDate: time.Now().UTC(), AuthorID: author.ID}
	if err := posts.Create(ctx, first, []string{"rock"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second := &models.Post{Text: "два", PubDate: time.Now().UTC(), AuthorID: author.ID}
	if err := posts.Create(ctx, second, []string{"rock", "icy"}); err != nil {
		t.Fatalf("second create failed: %v", err)
	}

	got, err := posts.GetByID(ctx, second.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	names := got.TagNames()
	if len(names) != 2 || names[0] != "rock" || names[1] != "icy" {
		t.Errorf("TagNames() = %v, want [rock icy]", names)
	}

	var tagCount int64
	if err := repo.db.Model(&models.Tag{}).Count(&tagCount).Error; err != nil {
		t.Fatalf("tag count failed: %v", err)
	}
	if tagCount != 2 {
		t.Errorf("tag table holds %d rows, want 2 (shared name reused)", tagCount)
	}
}
