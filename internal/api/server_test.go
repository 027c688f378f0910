// File path: internal/api/server_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/docschat/docschat/internal/app"
	"github.com/docschat/docschat/internal/catalog"
	"github.com/docschat/docschat/internal/chat"
	"github.com/docschat/docschat/internal/ingest"
	"github.com/docschat/docschat/internal/llm/providers"
	"github.com/docschat/docschat/internal/profile"
	"github.com/docschat/docschat/internal/vector"
)

type fakeProvider struct {
	answer   string
	chatErr  error
	embedErr error
}

func (f *fakeProvider) Chat(ctx context.Context, messages []providers.Message) (string, error) {
	if f.chatErr != nil {
		return "", f.chatErr
	}
	return f.answer, nil
}

func (f *fakeProvider) Embed(ctx context.Context, input []string) ([][]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	out := make([][]float32, len(input))
	for i := range input {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func newTestServer(t *testing.T) (*Server, *fakeProvider, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := catalog.Open(filepath.Join(dir, "catalog.db"))
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	provider := &fakeProvider{answer: "stub answer"}
	selector, err := profile.NewSelector(dir, provider, provider)
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}
	indexes := vector.NewStore()
	application := &app.App{
		Catalog:  store,
		Selector: selector,
		Pipeline: ingest.NewPipeline(store, indexes, 1500),
		Engine: chat.NewEngine(store, indexes, chat.Config{
			ConversationBudget: 500,
			DocumentBudget:     3000,
			TitleBudget:        4000,
			RetrievalChunkSize: 500,
			RetrievalLimit:     4,
			GenerationTimeout:  5 * time.Second,
		}),
	}
	srv, err := NewServer(application)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv, provider, dir
}

func doJSON(t *testing.T, srv *Server, method, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &body)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func ingestFixture(t *testing.T, srv *Server, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/documents", ingestRequest{Mode: "normal", Path: path})
	if rec.Code != http.StatusCreated {
		t.Fatalf("ingest status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp ingestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode ingest response: %v", err)
	}
	return resp.Document
}

func TestIngestAndListDocuments(t *testing.T) {
	srv, _, dir := newTestServer(t)
	name := ingestFixture(t, srv, dir, "guide.txt", "alpha beta gamma")
	if name != "guide_txt" {
		t.Fatalf("document name = %q, want guide_txt", name)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/documents?mode=normal", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listing struct {
		Documents []documentResponse `json:"documents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listing.Documents) != 1 || listing.Documents[0].Name != "guide_txt" {
		t.Fatalf("listing = %+v", listing.Documents)
	}
}

func TestIngestRejectsUnsupportedFormat(t *testing.T) {
	srv, _, dir := newTestServer(t)
	path := filepath.Join(dir, "binary.bin")
	if err := os.WriteFile(path, []byte{0x01, 0x02}, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/documents", ingestRequest{Mode: "normal", Path: path})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestIngestRejectsBadMode(t *testing.T) {
	srv, _, dir := newTestServer(t)
	path := filepath.Join(dir, "guide.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/documents", ingestRequest{Mode: "turbo", Path: path})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestChatMintsNamespaceAndRecordsTurns(t *testing.T) {
	srv, _, dir := newTestServer(t)
	ingestFixture(t, srv, dir, "guide.txt", "the grass is green and the sky is blue")

	rec := doJSON(t, srv, http.MethodPost, "/api/chat", chatRequest{
		Mode: "normal", Document: "guide.txt", Message: "what color is the grass?",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("chat status = %d, body %s", rec.Code, rec.Body.String())
	}
	var first chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode chat response: %v", err)
	}
	if first.Answer != "stub answer" {
		t.Fatalf("answer = %q", first.Answer)
	}
	if first.Namespace == "" {
		t.Fatal("expected a minted namespace")
	}
	if first.Sequence != 0 {
		t.Fatalf("first sequence = %d, want 0", first.Sequence)
	}
	if first.Title != "stub answer" {
		t.Fatalf("title = %q, want synthesized title", first.Title)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/chat", chatRequest{
		Mode: "normal", Document: "guide.txt", Namespace: first.Namespace, Message: "and the sky?",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("second chat status = %d", rec.Code)
	}
	var second chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &second); err != nil {
		t.Fatalf("decode second response: %v", err)
	}
	if second.Namespace != first.Namespace {
		t.Fatalf("namespace changed: %q vs %q", second.Namespace, first.Namespace)
	}
	if second.Sequence != 1 {
		t.Fatalf("second sequence = %d, want 1", second.Sequence)
	}
	if second.Title != first.Title {
		t.Fatalf("title changed on later turn: %q vs %q", second.Title, first.Title)
	}
}

func TestChatRejectsNamespaceFromAnotherDocument(t *testing.T) {
	srv, _, dir := newTestServer(t)
	ingestFixture(t, srv, dir, "first.txt", "content of the first document")
	ingestFixture(t, srv, dir, "second.txt", "content of the second document")

	rec := doJSON(t, srv, http.MethodPost, "/api/chat", chatRequest{
		Mode: "normal", Document: "first.txt", Message: "hello",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("chat status = %d", rec.Code)
	}
	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/chat", chatRequest{
		Mode: "normal", Document: "second.txt", Namespace: resp.Namespace, Message: "hello again",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("cross-document namespace status = %d, want 400", rec.Code)
	}

	// The original thread must be untouched by the rejected request.
	replay := doJSON(t, srv, http.MethodGet, "/api/conversations/"+resp.Namespace, nil)
	var thread struct {
		Turns []turnResponse `json:"turns"`
	}
	if err := json.Unmarshal(replay.Body.Bytes(), &thread); err != nil {
		t.Fatalf("decode replay: %v", err)
	}
	if len(thread.Turns) != 1 {
		t.Fatalf("turn count = %d, want 1", len(thread.Turns))
	}
}

func TestChatUnknownDocumentIs404(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/api/chat", chatRequest{
		Mode: "normal", Document: "ghost.txt", Message: "anyone there?",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestChatBackendFailureRecordsPlaceholder(t *testing.T) {
	srv, provider, dir := newTestServer(t)
	ingestFixture(t, srv, dir, "guide.txt", "some content worth asking about")

	provider.chatErr = errors.New("backend down")
	rec := doJSON(t, srv, http.MethodPost, "/api/chat", chatRequest{
		Mode: "normal", Document: "guide.txt", Message: "hello?",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("chat status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Answer != placeholderAnswer {
		t.Fatalf("answer = %q, want placeholder", resp.Answer)
	}
	if resp.Title != placeholderTitle {
		t.Fatalf("title = %q, want placeholder", resp.Title)
	}

	// The failed turn must still be in the ledger.
	replay := doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/conversations/%s", resp.Namespace), nil)
	if replay.Code != http.StatusOK {
		t.Fatalf("replay status = %d", replay.Code)
	}
	var thread struct {
		Turns []turnResponse `json:"turns"`
	}
	if err := json.Unmarshal(replay.Body.Bytes(), &thread); err != nil {
		t.Fatalf("decode replay: %v", err)
	}
	if len(thread.Turns) != 1 || thread.Turns[0].AI != placeholderAnswer {
		t.Fatalf("replayed turns = %+v", thread.Turns)
	}
}

func TestListAndReplayConversations(t *testing.T) {
	srv, _, dir := newTestServer(t)
	ingestFixture(t, srv, dir, "guide.txt", "facts facts facts")

	var namespace string
	for i, msg := range []string{"first question", "second question"} {
		rec := doJSON(t, srv, http.MethodPost, "/api/chat", chatRequest{
			Mode: "normal", Document: "guide.txt", Namespace: namespace, Message: msg,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("chat %d status = %d", i, rec.Code)
		}
		var resp chatResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode chat %d: %v", i, err)
		}
		namespace = resp.Namespace
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/conversations?document=guide.txt", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listing struct {
		Conversations []conversationResponse `json:"conversations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listing.Conversations) != 1 {
		t.Fatalf("conversations = %+v", listing.Conversations)
	}
	if listing.Conversations[0].Namespace != namespace || listing.Conversations[0].Turns != 2 {
		t.Fatalf("thread summary = %+v", listing.Conversations[0])
	}

	replay := doJSON(t, srv, http.MethodGet, "/api/conversations/"+namespace, nil)
	var thread struct {
		Turns []turnResponse `json:"turns"`
	}
	if err := json.Unmarshal(replay.Body.Bytes(), &thread); err != nil {
		t.Fatalf("decode replay: %v", err)
	}
	if len(thread.Turns) != 2 {
		t.Fatalf("turn count = %d", len(thread.Turns))
	}
	if thread.Turns[0].Sequence != 0 || thread.Turns[1].Sequence != 1 {
		t.Fatalf("sequences = %d, %d", thread.Turns[0].Sequence, thread.Turns[1].Sequence)
	}
	if thread.Turns[0].Human != "first question" {
		t.Fatalf("replay order wrong: %+v", thread.Turns)
	}
}

func TestDeleteDocument(t *testing.T) {
	srv, _, dir := newTestServer(t)
	ingestFixture(t, srv, dir, "guide.txt", "temporary content")

	rec := doJSON(t, srv, http.MethodDelete, "/api/documents/guide.txt?mode=normal", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/documents?mode=normal", nil)
	var listing struct {
		Documents []documentResponse `json:"documents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listing.Documents) != 0 {
		t.Fatalf("expected empty listing, got %+v", listing.Documents)
	}
}

func TestUpdateDocumentAttributes(t *testing.T) {
	srv, _, dir := newTestServer(t)
	ingestFixture(t, srv, dir, "guide.txt", "original content")

	desc := "a short guide"
	rec := doJSON(t, srv, http.MethodPatch, "/api/documents/guide.txt", updateDocumentRequest{
		Mode: "normal", Description: &desc,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodPatch, "/api/documents/ghost.txt", updateDocumentRequest{
		Mode: "normal", Description: &desc,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update unknown status = %d, want 404", rec.Code)
	}
}
