package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"concord-backend/internal/chat"
	"concord-backend/internal/database"
	"concord-backend/internal/hub"
	"concord-backend/internal/jwt"
	"concord-backend/internal/keyValue"
	"concord-backend/internal/models"
	"concord-backend/internal/snowflake"
	"concord-backend/internal/store"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	testProfileOwner    = int64(101) // GUEST, message author
	testProfileGuest    = int64(102) // GUEST, not the author
	testProfileAdmin    = int64(103) // ADMIN
	testProfileOutsider = int64(104) // member of no server

	testServerID  = int64(10)
	testChannelID = int64(20)

	testMemberOwner = int64(1)
	testMemberGuest = int64(2)
	testMemberAdmin = int64(3)
)

func setupTestEnv(t *testing.T) http.Handler {
	t.Helper()

	testDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { testDB.Close() })
	testDB.SetMaxOpenConns(1)

	if err := database.CreateTables(testDB); err != nil {
		t.Fatal(err)
	}

	seed := []struct {
		query string
		args  []any
	}{
		{"INSERT INTO profiles (id, email, username, display_name, picture, password) VALUES (?, ?, ?, ?, ?, ?)",
			[]any{testProfileOwner, "owner@test.com", "owner", "Owner", "", []byte("x")}},
		{"INSERT INTO profiles (id, email, username, display_name, picture, password) VALUES (?, ?, ?, ?, ?, ?)",
			[]any{testProfileGuest, "guest@test.com", "guest", "Guest", "", []byte("x")}},
		{"INSERT INTO profiles (id, email, username, display_name, picture, password) VALUES (?, ?, ?, ?, ?, ?)",
			[]any{testProfileAdmin, "admin@test.com", "admin", "Admin", "", []byte("x")}},
		{"INSERT INTO profiles (id, email, username, display_name, picture, password) VALUES (?, ?, ?, ?, ?, ?)",
			[]any{testProfileOutsider, "out@test.com", "outsider", "Outsider", "", []byte("x")}},
		{"INSERT INTO servers (id, owner_id, name) VALUES (?, ?, ?)", []any{testServerID, testProfileAdmin, "test"}},
		{"INSERT INTO members (id, server_id, profile_id, role) VALUES (?, ?, ?, ?)", []any{testMemberOwner, testServerID, testProfileOwner, "GUEST"}},
		{"INSERT INTO members (id, server_id, profile_id, role) VALUES (?, ?, ?, ?)", []any{testMemberGuest, testServerID, testProfileGuest, "GUEST"}},
		{"INSERT INTO members (id, server_id, profile_id, role) VALUES (?, ?, ?, ?)", []any{testMemberAdmin, testServerID, testProfileAdmin, "ADMIN"}},
		{"INSERT INTO channels (id, server_id, name) VALUES (?, ?, ?)", []any{testChannelID, testServerID, "general"}},
	}
	for _, s := range seed {
		if _, err := testDB.Exec(s.query, s.args...); err != nil {
			t.Fatal(err)
		}
	}

	nop := zap.NewNop().Sugar()
	jwt.Setup("test-secret", false)
	keyValue.Setup(nop, nil, true)
	hub.Setup(nop, nil, true)
	store.Setup(nop, testDB)

	sugar = nop
	db = testDB
	chatService = chat.NewService(nop, hub.Notifier{})

	return Router(&models.ConfigFile{})
}

func seedChannelMessage(t *testing.T, authorMember int64, content string, fileURL string) *chat.Message {
	t.Helper()

	thread, err := store.Channel(context.Background(), testChannelID)
	if err != nil {
		t.Fatal(err)
	}

	id, err := snowflake.Generate()
	if err != nil {
		t.Fatal(err)
	}

	msg := &chat.Message{ID: id, MemberID: authorMember, Content: content, FileURL: fileURL}
	if err := thread.Insert(context.Background(), msg); err != nil {
		t.Fatal(err)
	}
	return msg
}

func doRequest(t *testing.T, router http.Handler, method string, path string, body string, asProfile int64) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)

	if asProfile != 0 {
		cookie, err := jwt.CreateToken(false, asProfile)
		if err != nil {
			t.Fatal(err)
		}
		req.AddCookie(&cookie)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func messagePath(messageID int64) string {
	return fmt.Sprintf("/api/channels/%d/messages/%d", testChannelID, messageID)
}

func TestEditMessageEndpoint(t *testing.T) {
	router := setupTestEnv(t)
	msg := seedChannelMessage(t, testMemberOwner, "hi", "/cdn/files/a.png")

	t.Run("unauthenticated", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPatch, messagePath(msg.ID), `{"content":"hello"}`, 0)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("got %d, want 401", rec.Code)
		}
	})

	t.Run("non-owner guest is forbidden", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPatch, messagePath(msg.ID), `{"content":"hello"}`, testProfileGuest)
		if rec.Code != http.StatusForbidden {
			t.Errorf("got %d, want 403", rec.Code)
		}
	})

	t.Run("admin may not edit someone else's message", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPatch, messagePath(msg.ID), `{"content":"hello"}`, testProfileAdmin)
		if rec.Code != http.StatusForbidden {
			t.Errorf("got %d, want 403", rec.Code)
		}
	})

	t.Run("non-member gets 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPatch, messagePath(msg.ID), `{"content":"hello"}`, testProfileOutsider)
		if rec.Code != http.StatusNotFound {
			t.Errorf("got %d, want 404", rec.Code)
		}
	})

	t.Run("owner edits own message", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPatch, messagePath(msg.ID), `{"content":"hello"}`, testProfileOwner)
		if rec.Code != http.StatusOK {
			t.Fatalf("got %d, want 200: %s", rec.Code, rec.Body.String())
		}

		var updated chat.Message
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatal(err)
		}
		if updated.Content != "hello" || updated.FileURL != "/cdn/files/a.png" || !updated.Edited {
			t.Errorf("unexpected response: %+v", updated)
		}
	})

	t.Run("missing message", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPatch, messagePath(999), `{"content":"hello"}`, testProfileOwner)
		if rec.Code != http.StatusNotFound {
			t.Errorf("got %d, want 404", rec.Code)
		}
	})

	t.Run("missing channel", func(t *testing.T) {
		path := fmt.Sprintf("/api/channels/999/messages/%d", msg.ID)
		rec := doRequest(t, router, http.MethodPatch, path, `{"content":"hello"}`, testProfileOwner)
		if rec.Code != http.StatusNotFound {
			t.Errorf("got %d, want 404", rec.Code)
		}
	})
}

func TestDeleteMessageEndpoint(t *testing.T) {
	router := setupTestEnv(t)
	msg := seedChannelMessage(t, testMemberOwner, "hi", "/cdn/files/a.png")

	t.Run("non-owner guest is forbidden", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodDelete, messagePath(msg.ID), "", testProfileGuest)
		if rec.Code != http.StatusForbidden {
			t.Errorf("got %d, want 403", rec.Code)
		}

		var deleted bool
		if err := db.QueryRow("SELECT deleted FROM messages WHERE id = ?", msg.ID).Scan(&deleted); err != nil {
			t.Fatal(err)
		}
		if deleted {
			t.Error("message must not be mutated by a forbidden delete")
		}
	})

	t.Run("admin deletes someone else's message", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodDelete, messagePath(msg.ID), "", testProfileAdmin)
		if rec.Code != http.StatusOK {
			t.Fatalf("got %d, want 200: %s", rec.Code, rec.Body.String())
		}

		var tombstone chat.Message
		if err := json.Unmarshal(rec.Body.Bytes(), &tombstone); err != nil {
			t.Fatal(err)
		}
		if !tombstone.Deleted || tombstone.Content != chat.DeletedPlaceholder || tombstone.FileURL != "" {
			t.Errorf("unexpected tombstone: %+v", tombstone)
		}
	})

	t.Run("second delete is 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodDelete, messagePath(msg.ID), "", testProfileAdmin)
		if rec.Code != http.StatusNotFound {
			t.Errorf("got %d, want 404", rec.Code)
		}
	})

	t.Run("edit after delete is 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPatch, messagePath(msg.ID), `{"content":"resurrect"}`, testProfileOwner)
		if rec.Code != http.StatusNotFound {
			t.Errorf("got %d, want 404", rec.Code)
		}
	})
}

func TestDirectMessageEndpoints(t *testing.T) {
	router := setupTestEnv(t)
	ctx := context.Background()

	conversation, err := store.FindOrCreateConversation(ctx, testMemberOwner, testMemberGuest)
	if err != nil {
		t.Fatal(err)
	}

	thread, err := store.Conversation(ctx, conversation.ID)
	if err != nil {
		t.Fatal(err)
	}

	id, err := snowflake.Generate()
	if err != nil {
		t.Fatal(err)
	}
	msg := &chat.Message{ID: id, MemberID: testMemberOwner, Content: "psst"}
	if err := thread.Insert(ctx, msg); err != nil {
		t.Fatal(err)
	}

	path := fmt.Sprintf("/api/conversations/%d/direct-messages/%d", conversation.ID, msg.ID)

	t.Run("party that is not the author cannot edit", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPatch, path, `{"content":"rewritten"}`, testProfileGuest)
		if rec.Code != http.StatusForbidden {
			t.Errorf("got %d, want 403", rec.Code)
		}
	})

	t.Run("non-party gets 404, conversation is not leaked", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPatch, path, `{"content":"rewritten"}`, testProfileAdmin)
		if rec.Code != http.StatusNotFound {
			t.Errorf("got %d, want 404", rec.Code)
		}
	})

	t.Run("invalid direct message ID is 400", func(t *testing.T) {
		badPath := fmt.Sprintf("/api/conversations/%d/direct-messages/abc", conversation.ID)
		rec := doRequest(t, router, http.MethodPatch, badPath, `{"content":"x"}`, testProfileOwner)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("got %d, want 400", rec.Code)
		}
	})

	t.Run("owner edits own direct message", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPatch, path, `{"content":"hello"}`, testProfileOwner)
		if rec.Code != http.StatusOK {
			t.Fatalf("got %d, want 200: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("other party deletes with elevated role only", func(t *testing.T) {
		// testMemberGuest is a GUEST, deleting the owner's message is denied
		rec := doRequest(t, router, http.MethodDelete, path, "", testProfileGuest)
		if rec.Code != http.StatusForbidden {
			t.Errorf("got %d, want 403", rec.Code)
		}

		rec = doRequest(t, router, http.MethodDelete, path, "", testProfileOwner)
		if rec.Code != http.StatusOK {
			t.Errorf("owner delete got %d, want 200", rec.Code)
		}
	})
}
