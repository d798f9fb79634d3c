// Package session owns session and chunk records: it mints upload
// destinations, records chunk arrival, decides session completion, and
// orchestrates cascade deletion across chunk records and blobs.
package session

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"medinote-backend/internal/apperr"
	"medinote-backend/internal/models"
	"medinote-backend/internal/store"
)

// Chunk blobs live under this prefix inside the bucket.
const blobPrefix = "sessions/"

// BlobStore is the narrow slice of object storage the manager needs.
// Uploads themselves happen client-side against the signed URL.
type BlobStore interface {
	CreateSignedUploadURL(objectPath string) (string, error)
	PublicURL(objectPath string) string
	Delete(objectPath string) error
	List(prefix string) ([]string, error)
}

type Manager struct {
	docs  store.DocumentStore
	blobs BlobStore

	// verifyUploads makes NotifyChunkUploaded confirm the blob actually
	// landed before recording the chunk. Off by default: a notification
	// for a blob that never arrived is otherwise accepted as-is.
	verifyUploads bool
}

func NewManager(docs store.DocumentStore, blobs BlobStore) *Manager {
	return &Manager{docs: docs, blobs: blobs}
}

// WithUploadVerification returns a manager that rejects notifications for
// blobs missing from storage.
func (m *Manager) WithUploadVerification() *Manager {
	clone := *m
	clone.verifyUploads = true
	return &clone
}

// ChunkObjectName derives the blob path for a chunk. The mp3 check is a
// substring sniff, not a MIME parse; the mobile client depends on the
// exact mapping, every non-mp3 type falls back to wav.
func ChunkObjectName(sessionID string, chunkNumber int, mimeType string) string {
	extension := "wav"
	if strings.Contains(mimeType, "mp3") {
		extension = "mp3"
	}
	return fmt.Sprintf("%s/chunk_%d.%s", sessionID, chunkNumber, extension)
}

// Presign mints a direct-upload destination for one chunk. No document
// state changes; the same inputs always yield the same path, so clients
// can safely re-request before uploading.
func (m *Manager) Presign(req models.PresignRequest) (*models.PresignResponse, error) {
	if req.SessionID == "" || req.ChunkNumber == nil || req.MimeType == "" {
		return nil, apperr.Validationf("sessionId, chunkNumber, and mimeType are required")
	}

	gcsPath := blobPrefix + ChunkObjectName(req.SessionID, *req.ChunkNumber, req.MimeType)

	url, err := m.blobs.CreateSignedUploadURL(gcsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned url: %w", err)
	}

	log.Printf("Generated presigned URL for session: %s, chunk: %d", req.SessionID, *req.ChunkNumber)

	return &models.PresignResponse{
		URL:       url,
		GCSPath:   gcsPath,
		PublicURL: m.blobs.PublicURL(gcsPath),
	}, nil
}

// NotifyChunkUploaded records an uploaded chunk and updates session
// progress; the last chunk completes the session. The counter update is
// atomic at the store layer, but callers wanting strict accounting should
// still serialize notifications per session since the completion write is
// last-writer-wins.
func (m *Manager) NotifyChunkUploaded(ctx context.Context, req models.NotifyChunkRequest) (*models.NotifyChunkResponse, error) {
	if req.SessionID == "" || req.GCSPath == "" || req.ChunkNumber == nil {
		return nil, apperr.Validationf("sessionId, gcsPath, and chunkNumber are required")
	}

	session, err := m.docs.Get(ctx, store.Sessions, req.SessionID)
	if err == store.ErrNotFound {
		// Rejecting keeps the chunk collection free of orphans; a chunk
		// record is never written for an unknown session.
		return nil, apperr.NotFoundf("session %s", req.SessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if m.verifyUploads {
		if err := m.verifyBlob(req.SessionID, req.GCSPath); err != nil {
			return nil, err
		}
	}

	chunk := models.Chunk{
		SessionID:   req.SessionID,
		ChunkNumber: *req.ChunkNumber,
		GCSPath:     req.GCSPath,
		PublicURL:   req.PublicURL,
		MimeType:    req.MimeType,
		IsLast:      req.IsLast,
		UploadedAt:  nowISO(),
	}
	chunkDoc, err := models.ToDoc(chunk)
	if err != nil {
		return nil, err
	}
	if _, err := m.docs.Add(ctx, store.Chunks, chunkDoc); err != nil {
		return nil, fmt.Errorf("failed to record chunk: %w", err)
	}

	if _, err := m.docs.Increment(ctx, store.Sessions, req.SessionID, "chunksUploaded", 1); err != nil {
		return nil, fmt.Errorf("failed to update chunk count: %w", err)
	}

	log.Printf("Chunk %d uploaded for session: %s", *req.ChunkNumber, req.SessionID)

	status := "collecting"
	if req.IsLast {
		update := map[string]any{
			"totalChunks": req.TotalChunksClient,
			"templateId":  req.SelectedTemplateID,
			"model":       req.Model,
			"status":      models.SessionCompleted,
		}
		if endTime, _ := session["endTime"].(string); endTime == "" {
			update["endTime"] = nowISO()
		}
		if err := m.docs.Update(ctx, store.Sessions, req.SessionID, update); err != nil {
			return nil, fmt.Errorf("failed to complete session: %w", err)
		}
		status = models.SessionCompleted
		log.Printf("Last chunk received for session: %s, session completed", req.SessionID)
	}

	return &models.NotifyChunkResponse{
		Success: true,
		Message: "Chunk processed successfully",
		Status:  status,
	}, nil
}

func (m *Manager) verifyBlob(sessionID, gcsPath string) error {
	paths, err := m.blobs.List(blobPrefix + sessionID)
	if err != nil {
		return fmt.Errorf("failed to verify uploaded blob: %w", err)
	}
	for _, p := range paths {
		if p == gcsPath || strings.HasSuffix(gcsPath, p) {
			return nil
		}
	}
	return apperr.Validationf("no uploaded blob found at %s", gcsPath)
}

// ListChunks returns a session's chunks sorted ascending by chunk number,
// regardless of insertion order.
func (m *Manager) ListChunks(ctx context.Context, sessionID string) ([]map[string]any, error) {
	if sessionID == "" {
		return nil, apperr.Validationf("sessionId is required")
	}

	chunks, err := m.docs.List(ctx, store.Chunks, store.Filter{Field: "sessionId", Value: sessionID})
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}

	sort.Slice(chunks, func(i, j int) bool {
		return store.AsInt64(chunks[i]["chunkNumber"]) < store.AsInt64(chunks[j]["chunkNumber"])
	})
	return chunks, nil
}

// CreateSession starts a new in-progress recording session for a patient.
func (m *Manager) CreateSession(ctx context.Context, userID string, req models.CreateSessionRequest) (string, error) {
	if req.PatientID == "" || userID == "" {
		return "", apperr.Validationf("patientId and userId are required")
	}

	session := models.Session{
		UserID:      userID,
		PatientID:   req.PatientID,
		PatientName: req.PatientName,
		Status:      models.SessionInProgress,
		StartTime:   nowISO(),
	}
	doc, err := models.ToDoc(session)
	if err != nil {
		return "", err
	}

	created, err := m.docs.Add(ctx, store.Sessions, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	id, _ := created["id"].(string)

	log.Printf("Created session: %s for user: %s", id, userID)
	return id, nil
}

// GetSession returns the raw session document.
func (m *Manager) GetSession(ctx context.Context, sessionID string) (map[string]any, error) {
	session, err := m.docs.Get(ctx, store.Sessions, sessionID)
	if err == store.ErrNotFound {
		return nil, apperr.NotFoundf("session %s", sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// UpdateSession merges data into a session the caller owns.
func (m *Manager) UpdateSession(ctx context.Context, sessionID, userID string, data map[string]any) (map[string]any, error) {
	if err := m.checkOwnership(ctx, sessionID, userID); err != nil {
		return nil, err
	}
	if err := m.docs.Update(ctx, store.Sessions, sessionID, data); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	return m.GetSession(ctx, sessionID)
}

// DeleteSession removes a session the caller owns together with its chunk
// records and blobs.
func (m *Manager) DeleteSession(ctx context.Context, sessionID, userID string) error {
	if err := m.checkOwnership(ctx, sessionID, userID); err != nil {
		return err
	}
	return m.deleteSessionCascade(ctx, sessionID)
}

// DeletePatientSessions runs the session cascade for every session owned
// by the patient. Patient record deletion is the caller's job and happens
// after the sessions are gone.
func (m *Manager) DeletePatientSessions(ctx context.Context, patientID string) error {
	sessions, err := m.docs.List(ctx, store.Sessions, store.Filter{Field: "patientId", Value: patientID})
	if err != nil {
		return fmt.Errorf("failed to list patient sessions: %w", err)
	}
	for _, session := range sessions {
		id, _ := session["id"].(string)
		if err := m.deleteSessionCascade(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// DeleteUserData removes every session (with its chunks and blobs),
// patient and template owned by the user. The user document itself is left
// to the caller.
func (m *Manager) DeleteUserData(ctx context.Context, userID string) error {
	sessions, err := m.docs.List(ctx, store.Sessions, store.Filter{Field: "userId", Value: userID})
	if err != nil {
		return fmt.Errorf("failed to list user sessions: %w", err)
	}
	for _, session := range sessions {
		id, _ := session["id"].(string)
		if err := m.deleteSessionCascade(ctx, id); err != nil {
			return err
		}
	}

	for _, collection := range []string{store.Patients, store.Templates} {
		docs, err := m.docs.List(ctx, collection, store.Filter{Field: "userId", Value: userID})
		if err != nil {
			return fmt.Errorf("failed to list user %s: %w", collection, err)
		}
		for _, doc := range docs {
			id, _ := doc["id"].(string)
			if err := m.docs.Delete(ctx, collection, id); err != nil && err != store.ErrNotFound {
				return fmt.Errorf("failed to delete %s %s: %w", collection, id, err)
			}
		}
	}
	return nil
}

func (m *Manager) checkOwnership(ctx context.Context, sessionID, userID string) error {
	session, err := m.docs.Get(ctx, store.Sessions, sessionID)
	if err == store.ErrNotFound {
		return apperr.NotFoundf("session %s", sessionID)
	}
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if owner, _ := session["userId"].(string); owner != userID {
		return apperr.ErrAccessDenied
	}
	return nil
}

// deleteSessionCascade deletes children before the parent: blobs first
// (best-effort), then chunk records, then the session record. A crash
// mid-cascade leaves the session visible and its chunks enumerable for a
// retry.
func (m *Manager) deleteSessionCascade(ctx context.Context, sessionID string) error {
	chunks, err := m.docs.List(ctx, store.Chunks, store.Filter{Field: "sessionId", Value: sessionID})
	if err != nil {
		return fmt.Errorf("failed to list chunks: %w", err)
	}

	for _, chunk := range chunks {
		gcsPath, _ := chunk["gcsPath"].(string)
		if gcsPath == "" {
			continue
		}
		if err := m.blobs.Delete(gcsPath); err != nil {
			// A missing or already-deleted blob must not block record
			// cleanup.
			log.Printf("Warning: failed to delete blob %s: %v", gcsPath, err)
		}
	}

	for _, chunk := range chunks {
		id, _ := chunk["id"].(string)
		if err := m.docs.Delete(ctx, store.Chunks, id); err != nil && err != store.ErrNotFound {
			return fmt.Errorf("failed to delete chunk %s: %w", id, err)
		}
	}

	if err := m.docs.Delete(ctx, store.Sessions, sessionID); err != nil && err != store.ErrNotFound {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}

	log.Printf("Session %s and associated chunks deleted", sessionID)
	return nil
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
