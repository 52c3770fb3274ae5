package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/swiss-tables/services"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err       error
		status    int
		retryable bool
	}{
		{services.ErrMatchNotFound, http.StatusNotFound, false},
		{fmt.Errorf("load: %w", services.ErrRoundNotFound), http.StatusNotFound, false},
		{services.ErrForbidden, http.StatusForbidden, false},
		{services.ErrInvalidSlot, http.StatusBadRequest, false},
		{services.ErrCrossRoundSwap, http.StatusBadRequest, false},
		{services.ErrResultsExist, http.StatusConflict, false},
		{services.ErrNoResultSelected, http.StatusConflict, false},
		{services.ErrConflict, http.StatusConflict, true},
		{services.ErrAuthInvalidCredentials, http.StatusUnauthorized, false},
		{services.ErrExportDisabled, http.StatusServiceUnavailable, false},
		{errors.New("disk on fire"), http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rr := httptest.NewRecorder()
			mapServiceErrorToHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if _, ok := body["error"]; !ok {
				t.Fatalf("missing error field in %v", body)
			}
			if got := body["retryable"] == true; got != tt.retryable {
				t.Fatalf("retryable = %v, want %v", got, tt.retryable)
			}
			if tt.status == http.StatusInternalServerError && strings.Contains(rr.Body.String(), "disk on fire") {
				t.Fatalf("internal error leaked to the client: %s", rr.Body.String())
			}
		})
	}
}

func TestReadJSON(t *testing.T) {
	tests := map[string]struct {
		body    string
		wantErr string
	}{
		"valid":         {body: `{"name":"Ash"}`},
		"empty":         {body: ``, wantErr: "must not be empty"},
		"unknown field": {body: `{"nick":"Ash"}`, wantErr: "unknown key"},
		"wrong type":    {body: `{"name":5}`, wantErr: `field "name"`},
		"two values":    {body: `{"name":"a"}{"name":"b"}`, wantErr: "single JSON value"},
		"malformed":     {body: `{"name":`, wantErr: "badly-formed"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var dst struct {
				Name string `json:"name"`
			}
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := readJSON(httptest.NewRecorder(), req, &dst)
			if tt.wantErr == "" {
				if err != nil || dst.Name != "Ash" {
					t.Fatalf("readJSON = %v, name %q", err, dst.Name)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("readJSON error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetIDFromURL(t *testing.T) {
	tests := map[string]struct {
		value   string
		want    int
		wantErr bool
	}{
		"valid":    {value: "42", want: 42},
		"zero":     {value: "0", wantErr: true},
		"negative": {value: "-3", wantErr: true},
		"word":     {value: "abc", wantErr: true},
		"missing":  {value: "", wantErr: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("matchID", tt.value)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			got, err := getIDFromURL(req, "matchID")
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Fatalf("getIDFromURL = %d, %v", got, err)
			}
		})
	}
}
