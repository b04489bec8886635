// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteAttachment_Success(t *testing.T) {
	var gotMethod, gotPath string
	mux := http.NewServeMux()
	mux.HandleFunc("/attachment/7/delete", func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		http.Redirect(w, r, "/correspondence/3", http.StatusFound)
	})
	mux.HandleFunc("/correspondence/3", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second)
	require.NoError(t, c.DeleteAttachment(context.Background(), 7))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/attachment/7/delete", gotPath)
}

func TestDeleteAttachment_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "attachment missing", http.StatusNotFound)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second).DeleteAttachment(context.Background(), 9)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "attachment missing", se.Body)
	assert.True(t, IsNotFound(err))
}

func TestDeleteAttachment_InvalidID(t *testing.T) {
	err := NewClient("http://unused", 0).DeleteAttachment(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestDeleteAttachment_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewClient(url, time.Second).DeleteAttachment(context.Background(), 1)
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestListRecent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/correspondence", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id":5,"reference_number":"OUT-20250301-0005","subject":"Reply","type":"outgoing"},
			{"id":4,"reference_number":"IN-20250228-0004","subject":"Request","type":"incoming","status":"processed"}
		]`)
	}))
	defer srv.Close()

	entries, err := NewClient(srv.URL, time.Second).ListRecent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(5), entries[0].ID)
	assert.Equal(t, "OUT-20250301-0005", entries[0].ReferenceNumber)
	assert.Equal(t, "processed", entries[1].Status)
}

func TestListRecent_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).ListRecent(context.Background(), 0)
	assert.Error(t, err)
}

func TestSubmitCorrespondence(t *testing.T) {
	dir := t.TempDir()
	scan := filepath.Join(dir, "scan.pdf")
	require.NoError(t, os.WriteFile(scan, []byte("%PDF-1.4"), 0600))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/correspondence/12/edit", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "Lease renewal", r.FormValue("subject"))
		assert.Equal(t, "incoming", r.FormValue("type"))

		files := r.MultipartForm.File["attachments"]
		if assert.Len(t, files, 1) {
			assert.Equal(t, "scan.pdf", files[0].Filename)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second).SubmitCorrespondence(context.Background(), EditPath(12),
		map[string]string{"subject": "Lease renewal", "type": "incoming", "content": "..."},
		[]string{scan})
	require.NoError(t, err)
}

func TestSubmitCorrespondence_RejectsDisallowedAttachment(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second).SubmitCorrespondence(context.Background(), NewPath,
		map[string]string{"subject": "x"}, []string{"/tmp/run.exe"})
	assert.ErrorIs(t, err, ErrAttachmentType)
	assert.False(t, called)
}

func TestSubmitCorrespondence_MissingFile(t *testing.T) {
	err := NewClient("http://unused", time.Second).SubmitCorrespondence(context.Background(), NewPath,
		nil, []string{filepath.Join(t.TempDir(), "gone.pdf")})
	assert.Error(t, err)
}

func TestAllowedAttachment(t *testing.T) {
	assert.True(t, AllowedAttachment("report.PDF"))
	assert.True(t, AllowedAttachment("archive.7z"))
	assert.False(t, AllowedAttachment("script.sh"))
	assert.False(t, AllowedAttachment("README"))
}

func TestStatusError_Error(t *testing.T) {
	err := &StatusError{Op: "list correspondence", StatusCode: 500}
	assert.Equal(t, "list correspondence: server returned 500 Internal Server Error", err.Error())
}
