package request_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/protomem/medicall/internal/request"
)

type payload struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		strict  bool
		wantErr string
	}{
		{name: "valid", body: `{"name":"ann","age":3}`},
		{name: "unknown field lenient", body: `{"name":"ann","extra":1}`},
		{name: "unknown field strict", body: `{"name":"ann","extra":1}`, strict: true, wantErr: "unknown key"},
		{name: "empty", body: ``, wantErr: "must not be empty"},
		{name: "malformed", body: `{"name":`, wantErr: "badly-formed"},
		{name: "wrong type", body: `{"age":"x"}`, wantErr: `field "age"`},
		{name: "two values", body: `{} {}`, wantErr: "single JSON value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var dst payload
			var err error
			if tt.strict {
				err = request.DecodeJSONStrict(w, r, &dst)
			} else {
				err = request.DecodeJSON(w, r, &dst)
			}

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
