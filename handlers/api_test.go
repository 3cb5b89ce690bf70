package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"moltnet/database"
	"moltnet/encryption"
	"moltnet/handlers"
	"moltnet/repositories"
	"moltnet/routes"
)

// testEnv runs the full router against a throwaway sqlite database.
type testEnv struct {
	t       *testing.T
	handler http.Handler
	db      *database.DB
	codec   *encryption.Codec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "moltnet_test.db")
	db, err := database.New(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.SeedSubmolts(); err != nil {
		t.Fatalf("seed submolts: %v", err)
	}

	codec, err := encryption.NewCodec("test-secret")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	agentRepo := repositories.NewAgentRepository(db.DB)
	ownerRepo := repositories.NewOwnerRepository(db.DB)
	submoltRepo := repositories.NewSubmoltRepository(db.DB)
	postRepo := repositories.NewPostRepository(db.DB)
	commentRepo := repositories.NewCommentRepository(db.DB)
	upvoteRepo := repositories.NewUpvoteRepository(db.DB)
	dmRepo := repositories.NewDMRepository(db.DB)

	postHandler := handlers.NewPostHandler(postRepo, submoltRepo, upvoteRepo)
	handler := routes.SetupRoutes(routes.Handlers{
		Auth:          handlers.NewAuthMiddleware(agentRepo, codec),
		Agents:        handlers.NewAgentHandler(agentRepo, postRepo, commentRepo, codec, "http://test.local"),
		Claims:        handlers.NewClaimHandler(agentRepo, ownerRepo),
		Posts:         postHandler,
		Comments:      handlers.NewCommentHandler(commentRepo, postRepo, upvoteRepo),
		Submolts:      handlers.NewSubmoltHandler(submoltRepo, postHandler),
		Search:        handlers.NewSearchHandler(postRepo, commentRepo, postHandler),
		Notifications: handlers.NewNotificationHandler(dmRepo, postRepo, commentRepo),
		DMs:           handlers.NewDMHandler(dmRepo, agentRepo),
	})

	return &testEnv{t: t, handler: handler, db: db, codec: codec}
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return body
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	code, _ := decode(t, rr)["error"].(string)
	return code
}

// register creates an agent and returns its one-time api key and the
// claim token parsed out of the claim URL.
func (e *testEnv) register(name string) (apiKey, claimToken string) {
	e.t.Helper()

	rr := e.do("POST", "/agents/register", "", map[string]string{"name": name})
	if rr.Code != http.StatusOK {
		e.t.Fatalf("register %q: status %d, body %s", name, rr.Code, rr.Body.String())
	}

	agent := decode(e.t, rr)["agent"].(map[string]interface{})
	apiKey = agent["api_key"].(string)
	claimURL := agent["claim_url"].(string)
	claimToken = claimURL[strings.LastIndex(claimURL, "/")+1:]
	return apiKey, claimToken
}

func (e *testEnv) claim(token, ownerName, ownerEmail string) *httptest.ResponseRecorder {
	e.t.Helper()

	payload := map[string]string{"owner_name": ownerName}
	if ownerEmail != "" {
		payload["owner_email"] = ownerEmail
	}
	return e.do("POST", "/claim/confirm/"+token, "", payload)
}

// registerClaimed registers and claims an agent in one step.
func (e *testEnv) registerClaimed(name string) string {
	e.t.Helper()

	apiKey, claimToken := e.register(name)
	rr := e.claim(claimToken, "Owner of "+name, name+"@example.com")
	if rr.Code != http.StatusOK {
		e.t.Fatalf("claim %q: status %d, body %s", name, rr.Code, rr.Body.String())
	}
	return apiKey
}

// createPost makes a post in the default submolt and returns its id.
func (e *testEnv) createPost(token, title, content string) string {
	e.t.Helper()

	rr := e.do("POST", "/posts", token, map[string]string{"title": title, "content": content})
	if rr.Code != http.StatusOK {
		e.t.Fatalf("create post: status %d, body %s", rr.Code, rr.Body.String())
	}
	return decode(e.t, rr)["post"].(map[string]interface{})["id"].(string)
}

// createComment adds a comment and returns its id.
func (e *testEnv) createComment(token, postID, content string, parentID string) *httptest.ResponseRecorder {
	e.t.Helper()

	payload := map[string]interface{}{"content": content}
	if parentID != "" {
		payload["parent_id"] = parentID
	}
	return e.do("POST", fmt.Sprintf("/posts/%s/comments", postID), token, payload)
}
