package handlers_test

import (
	"net/http"
	"testing"
	"time"
)

func TestCommentCreationAndThreading(t *testing.T) {
	env := newTestEnv(t)
	key := env.registerClaimed("writer")
	postA := env.createPost(key, "post a", "contents")
	postB := env.createPost(key, "post b", "contents")

	rr := env.createComment(key, postA, "top level", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("comment: status %d, body %s", rr.Code, rr.Body.String())
	}
	parentID := decode(t, rr)["comment"].(map[string]interface{})["id"].(string)

	// Reply under the same post works.
	rr = env.createComment(key, postA, "reply", parentID)
	if rr.Code != http.StatusOK {
		t.Fatalf("reply: status %d, body %s", rr.Code, rr.Body.String())
	}

	// A parent from a different post is rejected.
	rr = env.createComment(key, postB, "cross-post reply", parentID)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("cross-post reply: status %d, want 400", rr.Code)
	}
	if code := errorCode(t, rr); code != "invalid_operation" {
		t.Fatalf("cross-post reply: error %q, want invalid_operation", code)
	}
}

func TestCommentRequiresContent(t *testing.T) {
	env := newTestEnv(t)
	key := env.registerClaimed("quiet")
	postID := env.createPost(key, "a post", "text")

	rr := env.createComment(key, postID, "   ", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("blank comment: status %d, want 400", rr.Code)
	}
}

func TestCommentOnMissingPost(t *testing.T) {
	env := newTestEnv(t)
	key := env.registerClaimed("lost")

	rr := env.createComment(key, "no-such-post", "hello", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("comment on missing post: status %d, want 404", rr.Code)
	}
}

func TestUpvoteToggle(t *testing.T) {
	env := newTestEnv(t)
	key := env.registerClaimed("voter")
	postID := env.createPost(key, "votable", "text")

	rr := env.createComment(key, postID, "vote me", "")
	commentID := decode(t, rr)["comment"].(map[string]interface{})["id"].(string)

	wantActions := []string{"added", "removed", "added"}
	for i, want := range wantActions {
		rr := env.do("POST", "/comments/"+commentID+"/upvote", key, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("toggle %d: status %d, body %s", i, rr.Code, rr.Body.String())
		}
		if action := decode(t, rr)["action"]; action != want {
			t.Fatalf("toggle %d: action %v, want %s", i, action, want)
		}
	}

	// Post upvotes follow the same toggle contract.
	for i, want := range wantActions {
		rr := env.do("POST", "/posts/"+postID+"/upvote", key, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("post toggle %d: status %d", i, rr.Code)
		}
		if action := decode(t, rr)["action"]; action != want {
			t.Fatalf("post toggle %d: action %v, want %s", i, action, want)
		}
	}
}

func TestCommentListingSortsAndNestsReplies(t *testing.T) {
	env := newTestEnv(t)
	key := env.registerClaimed("lister")
	other := env.registerClaimed("second")
	postID := env.createPost(key, "discussion", "text")

	rr := env.createComment(key, postID, "older", "")
	olderID := decode(t, rr)["comment"].(map[string]interface{})["id"].(string)
	time.Sleep(10 * time.Millisecond) // distinct created_at for the sort
	rr = env.createComment(other, postID, "newer", "")
	newerID := decode(t, rr)["comment"].(map[string]interface{})["id"].(string)

	env.createComment(other, postID, "a reply", olderID)

	// Upvote the older comment so it ranks first under sort=top.
	env.do("POST", "/comments/"+olderID+"/upvote", other, nil)

	rr = env.do("GET", "/posts/"+postID+"/comments?sort=top", key, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list comments: status %d", rr.Code)
	}
	comments := decode(t, rr)["comments"].([]interface{})
	if len(comments) != 2 {
		t.Fatalf("top-level comments: got %d, want 2", len(comments))
	}
	top := comments[0].(map[string]interface{})
	if top["id"] != olderID {
		t.Fatalf("sort=top order: first is %v, want %s", top["id"], olderID)
	}
	if top["reply_count"].(float64) != 1 {
		t.Fatalf("reply_count: got %v, want 1", top["reply_count"])
	}
	replies := top["recent_replies"].([]interface{})
	if len(replies) != 1 {
		t.Fatalf("recent_replies: got %d, want 1", len(replies))
	}

	rr = env.do("GET", "/posts/"+postID+"/comments?sort=new", key, nil)
	comments = decode(t, rr)["comments"].([]interface{})
	if comments[0].(map[string]interface{})["id"] != newerID {
		t.Fatalf("sort=new order: first is %v, want %s", comments[0].(map[string]interface{})["id"], newerID)
	}
}
