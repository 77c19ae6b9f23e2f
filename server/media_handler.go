package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/VYD3N/tezos-music-player/core/ipfs"
	"github.com/VYD3N/tezos-music-player/logger"
	"github.com/VYD3N/tezos-music-player/storage"
)

var mediaClient = &http.Client{Timeout: 60 * time.Second}

// MediaProxyHandler serves an IPFS object by CID, preferring the MinIO cache
// and falling back to the public gateway. Gateway hits are cached
// asynchronously for the next request.
func (h *APIHandler) MediaProxyHandler(w http.ResponseWriter, r *http.Request) {
	cid := mux.Vars(r)["cid"]
	if !ipfs.IsCID(cid) {
		http.Error(w, "Invalid CID", http.StatusBadRequest)
		return
	}

	if storage.CacheEnabled() {
		obj, contentType, err := storage.GetMediaObject(r.Context(), cid)
		if err == nil {
			defer obj.Close()
			if contentType != "" {
				w.Header().Set("Content-Type", contentType)
			}
			if _, err := io.Copy(w, obj); err != nil {
				logger.Debug("media copy aborted", logger.ErrorField(err))
			}
			return
		}
		logger.Debug("media cache miss", logger.String("cid", cid))
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, h.cfg.IPFSGateway+cid, nil)
	if err != nil {
		http.Error(w, "Failed to build gateway request", http.StatusInternalServerError)
		return
	}
	resp, err := mediaClient.Do(req)
	if err != nil {
		logger.Error("gateway fetch failed", logger.String("cid", cid), logger.ErrorField(err))
		http.Error(w, "Gateway unreachable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		http.Error(w, "Gateway returned error", http.StatusBadGateway)
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	if !storage.CacheEnabled() {
		if _, err := io.Copy(w, resp.Body); err != nil {
			logger.Debug("media copy aborted", logger.ErrorField(err))
		}
		return
	}

	// Tee the body into memory so the object can be cached after the
	// response is served.
	var buf bytes.Buffer
	if _, err := io.Copy(w, io.TeeReader(resp.Body, &buf)); err != nil {
		logger.Debug("media copy aborted", logger.ErrorField(err))
		return
	}

	go func(cid, contentType string, data []byte) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := storage.PutMediaObject(ctx, cid, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
			logger.Warn("media cache write failed", logger.String("cid", cid), logger.ErrorField(err))
		}
	}(cid, contentType, buf.Bytes())
}
