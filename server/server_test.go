package server

import (
	"battlefeed/assets"
	"battlefeed/storage"
	"battlefeed/storage/models"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubFeedStore struct {
	entries map[string]*models.FeedEntry
}

func newStubFeedStore() *stubFeedStore {
	return &stubFeedStore{entries: make(map[string]*models.FeedEntry)}
}

func (s *stubFeedStore) AdmitEntry(_ context.Context, assetID, displayName, imageRef string) (models.FeedEntry, error) {
	if strings.TrimSpace(assetID) == "" {
		return models.FeedEntry{}, fmt.Errorf("%w: %w", storage.ErrAdmissionFailed, storage.ErrEmptyAssetID)
	}
	entry, ok := s.entries[assetID]
	if !ok {
		entry = &models.FeedEntry{AssetID: assetID, Comments: []models.Comment{}}
		s.entries[assetID] = entry
	}
	entry.DisplayName = displayName
	entry.ImageRef = imageRef
	return *entry, nil
}

func (s *stubFeedStore) LikeEntry(_ context.Context, assetID string) (int64, error) {
	entry, ok := s.entries[assetID]
	if !ok {
		return 0, fmt.Errorf("%w: %w", storage.ErrEngagementFailed, storage.ErrUnknownAsset)
	}
	entry.LikeCount++
	return entry.LikeCount, nil
}

func (s *stubFeedStore) CreateComment(_ context.Context, assetID, text string) (models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return models.Comment{}, fmt.Errorf("%w: %w", storage.ErrCommentFailed, storage.ErrEmptyComment)
	}
	entry, ok := s.entries[assetID]
	if !ok {
		return models.Comment{}, fmt.Errorf("%w: %w", storage.ErrCommentFailed, storage.ErrUnknownAsset)
	}
	comment := models.Comment{
		ID:      int64(len(entry.Comments) + 1),
		AssetID: assetID,
		Text:    strings.TrimSpace(text),
	}
	entry.Comments = append(entry.Comments, comment)
	return comment, nil
}

type stubProjector struct {
	entries []models.FeedEntry
	err     error
}

func (p *stubProjector) Project(context.Context) ([]models.FeedEntry, error) {
	return p.entries, p.err
}

func (p *stubProjector) Leader(context.Context) (*models.FeedEntry, error) {
	if p.err != nil {
		return nil, p.err
	}
	if len(p.entries) == 0 {
		return nil, nil
	}
	return &p.entries[0], nil
}

type stubViewers struct {
	liked map[string]bool
}

func newStubViewers() *stubViewers {
	return &stubViewers{liked: make(map[string]bool)}
}

func (v *stubViewers) HasLiked(_ context.Context, viewerID, assetID string) bool {
	return v.liked[viewerID+"/"+assetID]
}

func (v *stubViewers) RecordLike(_ context.Context, viewerID, assetID string) {
	v.liked[viewerID+"/"+assetID] = true
}

type stubSource struct {
	owned []assets.Asset
	err   error
}

func (s *stubSource) ListOwned(context.Context, string) ([]assets.Asset, error) {
	return s.owned, s.err
}

func newTestServer(store FeedStore, projector FeedProjector, viewers ViewerRegistry, source assets.Source) *Server {
	return NewServer(store, projector, viewers, source, 0)
}

func postJson(handler http.HandlerFunc, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	for key, value := range headers {
		request.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	handler(recorder, request)
	return recorder
}

func TestPostLikeDedup(t *testing.T) {
	store := newStubFeedStore()
	store.AdmitEntry(context.Background(), "a1", "Dragon", "img1")
	s := newTestServer(store, &stubProjector{}, newStubViewers(), &stubSource{})

	headers := map[string]string{ViewerIDHeader: "viewer-1"}

	first := postJson(s.postLike, "/like", `{"asset_id":"a1"}`, headers)
	if first.Code != http.StatusOK {
		t.Fatalf("first like status = %d, want 200", first.Code)
	}
	var resp likeResponse
	json.Unmarshal(first.Body.Bytes(), &resp)
	if resp.LikeCount != 1 {
		t.Errorf("like count = %d, want 1", resp.LikeCount)
	}

	second := postJson(s.postLike, "/like", `{"asset_id":"a1"}`, headers)
	if second.Code != http.StatusConflict {
		t.Errorf("repeat like status = %d, want 409", second.Code)
	}
	if store.entries["a1"].LikeCount != 1 {
		t.Errorf("store like count = %d, want 1 (guard bypassed)", store.entries["a1"].LikeCount)
	}
}

func TestPostLikeDifferentViewerContexts(t *testing.T) {
	store := newStubFeedStore()
	store.AdmitEntry(context.Background(), "a1", "Dragon", "img1")
	s := newTestServer(store, &stubProjector{}, newStubViewers(), &stubSource{})

	// Dedup is per context: a second device can like the same entry again
	for _, viewer := range []string{"viewer-1", "viewer-2"} {
		recorder := postJson(s.postLike, "/like", `{"asset_id":"a1"}`, map[string]string{ViewerIDHeader: viewer})
		if recorder.Code != http.StatusOK {
			t.Fatalf("like from %s status = %d, want 200", viewer, recorder.Code)
		}
	}
	if store.entries["a1"].LikeCount != 2 {
		t.Errorf("like count = %d, want 2", store.entries["a1"].LikeCount)
	}
}

func TestPostLikeWithoutViewerHeader(t *testing.T) {
	store := newStubFeedStore()
	store.AdmitEntry(context.Background(), "a1", "Dragon", "img1")
	s := newTestServer(store, &stubProjector{}, newStubViewers(), &stubSource{})

	for i := 0; i < 2; i++ {
		recorder := postJson(s.postLike, "/like", `{"asset_id":"a1"}`, nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("like %d status = %d, want 200", i, recorder.Code)
		}
	}
}

func TestPostLikeUnknownAsset(t *testing.T) {
	s := newTestServer(newStubFeedStore(), &stubProjector{}, newStubViewers(), &stubSource{})

	recorder := postJson(s.postLike, "/like", `{"asset_id":"missing"}`, nil)
	if recorder.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", recorder.Code)
	}
}

func TestPostLikeBadRequest(t *testing.T) {
	s := newTestServer(newStubFeedStore(), &stubProjector{}, newStubViewers(), &stubSource{})

	for _, body := range []string{"", "{}", "not json"} {
		recorder := postJson(s.postLike, "/like", body, nil)
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("body %q status = %d, want 400", body, recorder.Code)
		}
	}
}

func TestPostAdmit(t *testing.T) {
	store := newStubFeedStore()
	s := newTestServer(store, &stubProjector{}, newStubViewers(), &stubSource{})

	recorder := postJson(s.postAdmit, "/admit", `{"asset_id":"a1","display_name":"Dragon","image_ref":"img1"}`, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if _, ok := store.entries["a1"]; !ok {
		t.Error("entry not admitted")
	}

	missing := postJson(s.postAdmit, "/admit", `{"display_name":"Dragon"}`, nil)
	if missing.Code != http.StatusBadRequest {
		t.Errorf("empty asset_id status = %d, want 400", missing.Code)
	}
}

func TestPostCommentValidation(t *testing.T) {
	store := newStubFeedStore()
	store.AdmitEntry(context.Background(), "a1", "Dragon", "img1")
	s := newTestServer(store, &stubProjector{}, newStubViewers(), &stubSource{})

	empty := postJson(s.postComment, "/comment", `{"asset_id":"a1","text":"   "}`, nil)
	if empty.Code != http.StatusBadRequest {
		t.Errorf("empty text status = %d, want 400", empty.Code)
	}

	unknown := postJson(s.postComment, "/comment", `{"asset_id":"missing","text":"gg"}`, nil)
	if unknown.Code != http.StatusNotFound {
		t.Errorf("unknown asset status = %d, want 404", unknown.Code)
	}

	ok := postJson(s.postComment, "/comment", `{"asset_id":"a1","text":"gg"}`, nil)
	if ok.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", ok.Code)
	}
}

func TestMutationsRejectGet(t *testing.T) {
	s := newTestServer(newStubFeedStore(), &stubProjector{}, newStubViewers(), &stubSource{})

	handlers := map[string]http.HandlerFunc{
		"/admit":   s.postAdmit,
		"/like":    s.postLike,
		"/comment": s.postComment,
	}
	for path, handler := range handlers {
		recorder := httptest.NewRecorder()
		handler(recorder, httptest.NewRequest(http.MethodGet, path, nil))
		if recorder.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET %s status = %d, want 405", path, recorder.Code)
		}
	}
}

func TestGetFeed(t *testing.T) {
	projector := &stubProjector{entries: []models.FeedEntry{
		{AssetID: "a1", LikeCount: 2, Comments: []models.Comment{{Text: "gg"}}},
		{AssetID: "a2", LikeCount: 1, Comments: []models.Comment{}},
	}}
	s := newTestServer(newStubFeedStore(), projector, newStubViewers(), &stubSource{})

	recorder := httptest.NewRecorder()
	s.getFeed(recorder, httptest.NewRequest(http.MethodGet, "/feed", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	var resp feedResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Entries) != 2 || resp.Entries[0].AssetID != "a1" {
		t.Errorf("feed = %+v", resp.Entries)
	}
}

func TestGetLeader(t *testing.T) {
	projector := &stubProjector{entries: []models.FeedEntry{{AssetID: "a1", LikeCount: 2}}}
	s := newTestServer(newStubFeedStore(), projector, newStubViewers(), &stubSource{})

	recorder := httptest.NewRecorder()
	s.getLeader(recorder, httptest.NewRequest(http.MethodGet, "/leader", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	var leader models.FeedEntry
	json.Unmarshal(recorder.Body.Bytes(), &leader)
	if leader.AssetID != "a1" {
		t.Errorf("leader = %+v, want a1", leader)
	}
}

func TestGetLeaderEmptyFeed(t *testing.T) {
	s := newTestServer(newStubFeedStore(), &stubProjector{}, newStubViewers(), &stubSource{})

	recorder := httptest.NewRecorder()
	s.getLeader(recorder, httptest.NewRequest(http.MethodGet, "/leader", nil))
	if recorder.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", recorder.Code)
	}
}

func TestGetAssets(t *testing.T) {
	source := &stubSource{owned: []assets.Asset{
		{AssetID: "0x1", DisplayName: "Dragon", ImageRef: "img1"},
	}}
	s := newTestServer(newStubFeedStore(), &stubProjector{}, newStubViewers(), source)

	recorder := httptest.NewRecorder()
	s.getAssets(recorder, httptest.NewRequest(http.MethodGet, "/assets?owner=0xabc", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	var resp assetsResponse
	json.Unmarshal(recorder.Body.Bytes(), &resp)
	if len(resp.Assets) != 1 || resp.Assets[0].AssetID != "0x1" {
		t.Errorf("assets = %+v", resp.Assets)
	}

	missingOwner := httptest.NewRecorder()
	s.getAssets(missingOwner, httptest.NewRequest(http.MethodGet, "/assets", nil))
	if missingOwner.Code != http.StatusBadRequest {
		t.Errorf("missing owner status = %d, want 400", missingOwner.Code)
	}
}
