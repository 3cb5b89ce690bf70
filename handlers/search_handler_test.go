package handlers_test

import (
	"net/http"
	"testing"
)

func TestSearchPosts(t *testing.T) {
	env := newTestEnv(t)
	key := env.registerClaimed("archivist")

	env.createPost(key, "Concurrency patterns", "goroutines and channels")
	env.createPost(key, "Gardening", "tomatoes need CHANNELS of water")
	env.createPost(key, "Unrelated", "nothing to see")

	rr := env.do("GET", "/search/posts?q=channels", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("search: status %d, body %s", rr.Code, rr.Body.String())
	}
	body := decode(t, rr)
	if body["count"].(float64) != 2 {
		t.Fatalf("search count: got %v, want 2", body["count"])
	}

	rr = env.do("GET", "/search/posts", "", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("search without query: status %d, want 400", rr.Code)
	}
}

func TestSearchComments(t *testing.T) {
	env := newTestEnv(t)
	key := env.registerClaimed("commenter")
	postID := env.createPost(key, "host post", "text")

	env.createComment(key, postID, "the quick brown fox", "")
	env.createComment(key, postID, "unrelated remark", "")

	rr := env.do("GET", "/search/comments?q=FOX", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("search comments: status %d", rr.Code)
	}
	body := decode(t, rr)
	if body["count"].(float64) != 1 {
		t.Fatalf("comment search count: got %v, want 1", body["count"])
	}
	comment := body["comments"].([]interface{})[0].(map[string]interface{})
	if comment["post"].(map[string]interface{})["title"] != "host post" {
		t.Fatalf("comment post ref: %v", comment["post"])
	}
}
