package db

import (
	"context"
	"testing"
)

func TestFollowTwiceKeepsSingleEdge(t *testing.T) {
	repo := openTestDB(t)
	follows := NewFollowRepository(repo)
	ctx := context.Background()

	reader := seedUser(t, repo, "reader")
	author := seedUser(t, repo, "author")

	if err := follows.Follow(ctx, reader.ID, author.ID); err != nil {
		t.Fatalf("first follow failed: %v", err)
	}
	if err := follows.Follow(ctx, reader.ID, author.ID); err != nil {
		t.Fatalf("repeated follow failed: %v", err)
	}

	following, err := follows.FollowingCount(ctx, reader.ID)
	if err != nil {
		t.Fatalf("FollowingCount failed: %v", err)
	}
	if following != 1 {
		t.Errorf("FollowingCount = %d after double follow, want 1", following)
	}

	followers, err := follows.FollowerCount(ctx, author.ID)
	if err != nil {
		t.Fatalf("FollowerCount failed: %v", err)
	}
	if followers != 1 {
		t.Errorf("FollowerCount = %d after double follow, want 1", followers)
	}
}

func TestUnfollowMissingEdgeIsNoOp(t *testing.T) {
	repo := openTestDB(t)
	follows := NewFollowRepository(repo)
	ctx := context.Background()

	reader := seedUser(t, repo, "reader")
	author := seedUser(t, repo, "author")

	if err := follows.Unfollow(ctx, reader.ID, author.ID); err != nil {
		t.Fatalf("unfollow of a missing edge failed: %v", err)
	}

	if err := follows.Follow(ctx, reader.ID, author.ID); err != nil {
		t.Fatalf("follow failed: %v", err)
	}
	if err := follows.Unfollow(ctx, reader.ID, author.ID); err != nil {
		t.Fatalf("unfollow failed: %v", err)
	}
	if err := follows.Unfollow(ctx, reader.ID, author.ID); err != nil {
		t.Fatalf("second unfollow failed: %v", err)
	}

	ok, err := follows.IsFollowing(ctx, reader.ID, author.ID)
	if err != nil {
		t.Fatalf("IsFollowing failed: %v", err)
	}
	if ok {
		t.Error("IsFollowing = true after unfollow, want false")
	}
}
