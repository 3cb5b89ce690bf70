package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"moltnet/models"
)

func TestRegisterNameLengthBounds(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		want int
	}{
		{"ab", http.StatusBadRequest},
		{strings.Repeat("x", 31), http.StatusBadRequest},
		{"abc", http.StatusOK},
		{strings.Repeat("y", 30), http.StatusOK},
	}
	for _, tc := range cases {
		rr := env.do("POST", "/agents/register", "", map[string]string{"name": tc.name})
		if rr.Code != tc.want {
			t.Errorf("register %q: status %d, want %d (body %s)", tc.name, rr.Code, tc.want, rr.Body.String())
		}
	}
}

func TestRegisterDuplicateNameCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	env.register("echo")

	rr := env.do("POST", "/agents/register", "", map[string]string{"name": "ECHO"})
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate register: status %d, want 409", rr.Code)
	}
	if code := errorCode(t, rr); code != "conflict" {
		t.Fatalf("duplicate register: error %q, want conflict", code)
	}
}

func TestFreshKeyAuthenticates(t *testing.T) {
	env := newTestEnv(t)
	apiKey, _ := env.register("probe")

	rr := env.do("GET", "/agents/status", apiKey, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d, body %s", rr.Code, rr.Body.String())
	}
	body := decode(t, rr)
	if body["status"] != models.StatusPendingClaim {
		t.Fatalf("status: got %v, want pending_claim", body["status"])
	}
	if body["agent"].(map[string]interface{})["name"] != "probe" {
		t.Fatalf("resolved wrong agent: %v", body["agent"])
	}

	// The stored credential must decrypt back to the issued plaintext.
	var agent models.Agent
	if err := env.db.Where("name = ?", "probe").First(&agent).Error; err != nil {
		t.Fatalf("load agent: %v", err)
	}
	if agent.APIKey == apiKey {
		t.Fatalf("api key stored in plaintext")
	}
	stored, err := env.codec.Decrypt(agent.APIKey)
	if err != nil {
		t.Fatalf("decrypt stored key: %v", err)
	}
	if stored != apiKey {
		t.Fatalf("stored key round trip: got %q, want %q", stored, apiKey)
	}
}

func TestUnknownTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	env.register("someone")

	rr := env.do("GET", "/agents/status", "moltnet_neverissued", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unknown token: status %d, want 401", rr.Code)
	}
	if code := errorCode(t, rr); code != "unauthorized" {
		t.Fatalf("unknown token: error %q, want unauthorized", code)
	}
}

func TestMissingAuthorizationHeader(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do("GET", "/agents/status", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: status %d, want 401", rr.Code)
	}
}

func TestSelfFollowRejectedRegardlessOfStatus(t *testing.T) {
	env := newTestEnv(t)

	// Pending agent
	pendingKey, _ := env.register("pending")
	rr := env.do("POST", "/agents/pending/follow", pendingKey, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("pending self-follow: status %d, want 400", rr.Code)
	}
	if code := errorCode(t, rr); code != "invalid_operation" {
		t.Fatalf("pending self-follow: error %q, want invalid_operation", code)
	}

	// Claimed agent
	claimedKey := env.registerClaimed("grown")
	rr = env.do("POST", "/agents/grown/follow", claimedKey, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("claimed self-follow: status %d, want 400", rr.Code)
	}
}

func TestFollowLifecycle(t *testing.T) {
	env := newTestEnv(t)
	aliceKey := env.registerClaimed("alice")
	env.registerClaimed("bob")

	rr := env.do("POST", "/agents/bob/follow", aliceKey, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("follow: status %d, body %s", rr.Code, rr.Body.String())
	}

	rr = env.do("POST", "/agents/bob/follow", aliceKey, nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate follow: status %d, want 409", rr.Code)
	}

	rr = env.do("GET", "/agents/bob", aliceKey, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("profile: status %d", rr.Code)
	}
	profile := decode(t, rr)["agent"].(map[string]interface{})
	if profile["you_follow"] != true {
		t.Fatalf("you_follow: got %v, want true", profile["you_follow"])
	}

	rr = env.do("DELETE", "/agents/bob/follow", aliceKey, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("unfollow: status %d", rr.Code)
	}

	rr = env.do("DELETE", "/agents/bob/follow", aliceKey, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unfollow missing edge: status %d, want 404", rr.Code)
	}
}

func TestUnclaimedAgentForbiddenFromGatedActions(t *testing.T) {
	env := newTestEnv(t)
	pendingKey, _ := env.register("larva")
	env.registerClaimed("mature")
	postID := env.createPost(env.registerClaimed("author"), "hello", "world")

	gated := []struct {
		method, path string
		body         interface{}
	}{
		{"POST", "/agents/mature/follow", nil},
		{"POST", "/posts", map[string]string{"title": "t", "content": "c"}},
		{"POST", "/posts/" + postID + "/comments", map[string]string{"content": "hi"}},
		{"POST", "/submolts", map[string]string{"name": "x", "display_name": "X"}},
	}
	for _, tc := range gated {
		rr := env.do(tc.method, tc.path, pendingKey, tc.body)
		if rr.Code != http.StatusForbidden {
			t.Errorf("%s %s: status %d, want 403 (body %s)", tc.method, tc.path, rr.Code, rr.Body.String())
		}
	}
}

func TestMeRequiresClaimAndReportsStats(t *testing.T) {
	env := newTestEnv(t)
	pendingKey, _ := env.register("hatchling")

	rr := env.do("GET", "/agents/me", pendingKey, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("unclaimed me: status %d, want 403", rr.Code)
	}

	key := env.registerClaimed("veteran")
	env.createPost(key, "first post", "text")

	rr = env.do("GET", "/agents/me", key, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("me: status %d, body %s", rr.Code, rr.Body.String())
	}
	agent := decode(t, rr)["agent"].(map[string]interface{})
	if agent["post_count"].(float64) != 1 {
		t.Fatalf("post_count: got %v, want 1", agent["post_count"])
	}
}
