package test

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/giberode/gib/remote"
)

// Request is a call recorded by the backend stub
type Request struct {
	Method   string
	Endpoint string
	Query    url.Values
	Form     url.Values
	JSON     map[string]any
	Files    map[string][]byte
}

type Response struct {
	Status int
	Body   string
	Delay  time.Duration
}

type BackendServer struct {
	*httptest.Server

	mu        sync.Mutex
	responses map[string]Response
	requests  []Request
}

// Respond registers the answer for endpoint. Bodies that are not strings are JSON encoded.
func (b *BackendServer) Respond(endpoint string, status int, body any) {
	b.RespondDelayed(endpoint, status, body, 0)
}

func (b *BackendServer) RespondJSON(endpoint string, body any) {
	b.Respond(endpoint, http.StatusOK, body)
}

func (b *BackendServer) RespondDelayed(endpoint string, status int, body any, delay time.Duration) {
	var text string
	switch v := body.(type) {
	case string:
		text = v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			panic(err)
		}
		text = string(encoded)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses[endpoint] = Response{Status: status, Body: text, Delay: delay}
}

func (b *BackendServer) Requests(endpoint string) []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	var result []Request
	for _, r := range b.requests {
		if r.Endpoint == endpoint {
			result = append(result, r)
		}
	}
	return result
}

func (b *BackendServer) Count(endpoint string) int {
	return len(b.Requests(endpoint))
}

func (b *BackendServer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = nil
}

func (b *BackendServer) Config() *remote.Config {
	return &remote.Config{
		BaseURL:           b.URL + "/",
		Timeout:           5 * time.Second,
		AttendanceTimeout: 10 * time.Second,
	}
}

func (b *BackendServer) record(r *http.Request) Request {
	req := Request{
		Method:   r.Method,
		Endpoint: strings.TrimPrefix(r.URL.Path, "/"),
		Query:    r.URL.Query(),
		Form:     url.Values{},
		Files:    map[string][]byte{},
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req.JSON)
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err == nil {
			req.Form = r.PostForm
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(10 << 20); err == nil {
			for key, values := range r.MultipartForm.Value {
				req.Form[key] = values
			}
			for key, headers := range r.MultipartForm.File {
				if len(headers) == 0 {
					continue
				}
				if f, err := headers[0].Open(); err == nil {
					req.Files[key], _ = io.ReadAll(f)
					f.Close()
				}
			}
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, req)
	return req
}

func ServerStub() *BackendServer {
	backend := &BackendServer{responses: make(map[string]Response)}
	backend.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := backend.record(r)

		backend.mu.Lock()
		response, ok := backend.responses[req.Endpoint]
		backend.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		if response.Delay > 0 {
			select {
			case <-time.After(response.Delay):
			case <-r.Context().Done():
				return
			}
		}

		w.Header().Add("content-type", "application/json")
		w.WriteHeader(response.Status)
		w.Write([]byte(response.Body))
	}))
	return backend
}
