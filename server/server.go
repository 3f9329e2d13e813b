package server

import (
	"battlefeed/assets"
	"battlefeed/monitoring/middleware"
	"battlefeed/storage"
	"battlefeed/storage/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ViewerIDHeader carries the opaque, client-generated viewer context token.
// Requests without it skip the duplicate-like guard; dedup is advisory.
const ViewerIDHeader = "X-Viewer-Id"

type FeedStore interface {
	AdmitEntry(ctx context.Context, assetID, displayName, imageRef string) (models.FeedEntry, error)
	LikeEntry(ctx context.Context, assetID string) (int64, error)
	CreateComment(ctx context.Context, assetID, text string) (models.Comment, error)
}

type FeedProjector interface {
	Project(ctx context.Context) ([]models.FeedEntry, error)
	Leader(ctx context.Context) (*models.FeedEntry, error)
}

type ViewerRegistry interface {
	HasLiked(ctx context.Context, viewerID string, assetID string) bool
	RecordLike(ctx context.Context, viewerID string, assetID string)
}

type Server struct {
	store     FeedStore
	projector FeedProjector
	viewers   ViewerRegistry
	source    assets.Source
	hub       *Hub
	port      int
}

func NewServer(
	store FeedStore,
	projector FeedProjector,
	viewers ViewerRegistry,
	source assets.Source,
	port int,
) *Server {
	return &Server{
		store:     store,
		projector: projector,
		viewers:   viewers,
		source:    source,
		hub:       NewHub(),
		port:      port,
	}
}

func (s *Server) Run() {
	go s.hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/feed", s.getFeed)
	mux.HandleFunc("/leader", s.getLeader)
	mux.HandleFunc("/assets", s.getAssets)
	mux.HandleFunc("/admit", s.postAdmit)
	mux.HandleFunc("/like", s.postLike)
	mux.HandleFunc("/comment", s.postComment)
	mux.HandleFunc("/subscribe", s.subscribe)
	mux.Handle("/metrics", promhttp.Handler())

	err := http.ListenAndServe(
		fmt.Sprintf(":%d", s.port),
		middleware.NewServerMiddleware(mux),
	)
	if errors.Is(err, http.ErrServerClosed) {
		fmt.Printf("server closed\n")
	} else if err != nil {
		fmt.Printf("error starting server: %s\n", err)
		os.Exit(1)
	}
}

func (s *Server) getFeed(w http.ResponseWriter, r *http.Request) {
	entries, err := s.projector.Project(r.Context())
	if err != nil {
		sendError(w, http.StatusServiceUnavailable, "feed unavailable")
		return
	}
	sendJson(w, feedResponse{Entries: entries})
}

func (s *Server) getLeader(w http.ResponseWriter, r *http.Request) {
	leader, err := s.projector.Leader(r.Context())
	if err != nil {
		sendError(w, http.StatusServiceUnavailable, "feed unavailable")
		return
	}
	if leader == nil {
		sendError(w, http.StatusNotFound, "feed is empty")
		return
	}
	sendJson(w, leader)
}

func (s *Server) getAssets(w http.ResponseWriter, r *http.Request) {
	owner := getQueryItem(r.URL.Query(), "owner")
	if *owner == "" {
		sendError(w, http.StatusBadRequest, "missing owner param")
		return
	}

	owned, err := s.source.ListOwned(r.Context(), *owner)
	if err != nil {
		log.Errorf("Error listing owned assets: %v", err)
		sendError(w, http.StatusBadGateway, "asset ledger unavailable")
		return
	}
	sendJson(w, assetsResponse{Assets: owned})
}

func (s *Server) postAdmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req admitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := s.store.AdmitEntry(r.Context(), req.AssetID, req.DisplayName, req.ImageRef)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyAssetID) {
			sendError(w, http.StatusBadRequest, "missing asset_id")
		} else {
			sendError(w, http.StatusBadGateway, "admission failed")
		}
		return
	}

	s.hub.Broadcast(EventEntryAdmitted, entry.AssetID)
	sendJson(w, entry)
}

// postLike applies a like unless this viewer context already holds one.
// Clients that time out should re-check /feed before retrying, since the
// like may have landed and been recorded against their context already.
func (s *Server) postLike(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req likeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AssetID == "" {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	viewerID := r.Header.Get(ViewerIDHeader)
	if viewerID != "" && s.viewers.HasLiked(r.Context(), viewerID, req.AssetID) {
		sendError(w, http.StatusConflict, "already liked from this viewer context")
		return
	}

	likeCount, err := s.store.LikeEntry(r.Context(), req.AssetID)
	if err != nil {
		if errors.Is(err, storage.ErrUnknownAsset) {
			sendError(w, http.StatusNotFound, "unknown asset")
		} else {
			sendError(w, http.StatusBadGateway, "like failed")
		}
		return
	}

	if viewerID != "" {
		s.viewers.RecordLike(r.Context(), viewerID, req.AssetID)
	}
	s.hub.Broadcast(EventEntryLiked, req.AssetID)
	sendJson(w, likeResponse{AssetID: req.AssetID, LikeCount: likeCount})
}

func (s *Server) postComment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := s.store.CreateComment(r.Context(), req.AssetID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrEmptyComment):
			sendError(w, http.StatusBadRequest, "empty comment text")
		case errors.Is(err, storage.ErrUnknownAsset):
			sendError(w, http.StatusNotFound, "unknown asset")
		default:
			sendError(w, http.StatusBadGateway, "comment failed")
		}
		return
	}

	s.hub.Broadcast(EventEntryCommented, comment.AssetID)
	sendJson(w, comment)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Error upgrading subscriber: %v", err)
		return
	}
	s.hub.register <- conn

	// Subscribers only receive; the read loop just detects disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.hub.unregister <- conn
				return
			}
		}
	}()
}
