package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-tracker/internal/dto"
)

func TestPostStatusUpdate(t *testing.T) {
	var got dto.AdminStatusUpdateDTO
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/update_status", r.URL.Path)
		if r.Header.Get("X-API-KEY") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Invalid API key"}`))
			return
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message":"Status updated successfully for tracking code QS-A7K9M2P5"}`))
	}))
	defer srv.Close()

	req := dto.AdminStatusUpdateDTO{TrackingCode: "QS-A7K9M2P5", StatusMessage: "Repair completed"}

	msg, err := postStatusUpdate(context.Background(), srv.Client(), srv.URL+"/", "secret", req)
	require.NoError(t, err)
	assert.Equal(t, "Status updated successfully for tracking code QS-A7K9M2P5", msg)
	assert.Equal(t, req, got)

	_, err = postStatusUpdate(context.Background(), srv.Client(), srv.URL, "wrong", req)
	require.Error(t, err)
	assert.Equal(t, "401: Invalid API key", err.Error())
}
