package clubhouse

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newRouter(f *fixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(f.svc)
	r := gin.New()
	api := r.Group("/api/clubhouse")
	api.POST("/verify-password", h.VerifyPassword)
	api.POST("/create-session", h.CreateSession)
	api.POST("/verify-session", h.VerifySession)
	board := api.Group("/events/:eventId", h.RequireSession())
	board.GET("/messages", h.ListMessages)
	board.POST("/messages", h.PostMessage)
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}, header map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerStatusCodes(t *testing.T) {
	f := setup(t, Options{})
	r := newRouter(f)
	ev := f.event(t, "birdie42", true)
	open := f.event(t, "", true)

	tests := []struct {
		name   string
		path   string
		body   interface{}
		status int
	}{
		{"password ok", "/api/clubhouse/verify-password", map[string]string{"eventId": ev.ID, "password": "birdie42"}, http.StatusOK},
		{"password wrong", "/api/clubhouse/verify-password", map[string]string{"eventId": ev.ID, "password": "birdie43"}, http.StatusUnauthorized},
		{"password disabled", "/api/clubhouse/verify-password", map[string]string{"eventId": open.ID, "password": "x"}, http.StatusForbidden},
		{"password disabled empty", "/api/clubhouse/verify-password", map[string]string{"eventId": open.ID, "password": ""}, http.StatusForbidden},
		{"password unknown event", "/api/clubhouse/verify-password", map[string]string{"eventId": "missing", "password": "x"}, http.StatusNotFound},
		{"password missing fields", "/api/clubhouse/verify-password", map[string]string{"eventId": ev.ID}, http.StatusBadRequest},
		{"malformed body", "/api/clubhouse/verify-password", "not-an-object", http.StatusBadRequest},
		{"session ok", "/api/clubhouse/create-session", map[string]string{"eventId": ev.ID, "sessionId": "s-1", "displayName": "Pat"}, http.StatusOK},
		{"session name too long", "/api/clubhouse/create-session", map[string]string{"eventId": ev.ID, "sessionId": "s-2", "displayName": strings.Repeat("n", 51)}, http.StatusBadRequest},
		{"verify ok", "/api/clubhouse/verify-session", map[string]string{"eventId": ev.ID, "sessionId": "s-1"}, http.StatusOK},
		{"verify unknown", "/api/clubhouse/verify-session", map[string]string{"eventId": ev.ID, "sessionId": "s-9"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, tt.path, tt.body, nil)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d, body %s", w.Code, tt.status, w.Body.String())
			}
		})
	}
}

func TestCreateSessionResponse(t *testing.T) {
	f := setup(t, Options{})
	r := newRouter(f)
	ev := f.event(t, "birdie42", true)

	w := doJSON(r, http.MethodPost, "/api/clubhouse/create-session",
		map[string]string{"eventId": ev.ID, "sessionId": "s-1", "displayName": "Pat"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Session.ID == "" || resp.Session.DisplayName != "Pat" || resp.Session.SessionID != "s-1" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestBoardRequiresSession(t *testing.T) {
	f := setup(t, Options{})
	r := newRouter(f)
	ev := f.event(t, "birdie42", true)
	other := f.event(t, "eagle", true)
	f.join(t, ev.ID, "s-1", "Pat")

	path := "/api/clubhouse/events/" + ev.ID + "/messages"

	if w := doJSON(r, http.MethodGet, path, nil, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no session: status = %d", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/api/clubhouse/events/"+other.ID+"/messages", nil, map[string]string{SessionHeader: "s-1"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("foreign event: status = %d", w.Code)
	}

	hdr := map[string]string{SessionHeader: "s-1"}
	if w := doJSON(r, http.MethodPost, path, PostMessageRequest{Body: "Tee time moved to 8:10"}, hdr); w.Code != http.StatusCreated {
		t.Fatalf("post: status = %d, body %s", w.Code, w.Body.String())
	}

	w := doJSON(r, http.MethodGet, path+"?session=s-1", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}
	var msgs []Message
	if err := json.Unmarshal(w.Body.Bytes(), &msgs); err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || msgs[0].DisplayName != "Pat" {
		t.Fatalf("messages = %+v", msgs)
	}
}
