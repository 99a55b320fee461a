package testsupport

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// JPEG renders a solid-color JPEG of the given size.
func JPEG(t testing.TB, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill := color.RGBA{R: 200, G: 80, B: 40, A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// ImageServer serves generated images and records request counts per path.
// Paths containing "missing" answer 404 and paths containing "broken" answer
// 200 with a body that is not an image.
type ImageServer struct {
	*httptest.Server

	mu    sync.Mutex
	hits  map[string]int
	image []byte
}

// NewImageServer starts a server serving a width x height JPEG for every path.
func NewImageServer(t testing.TB, width, height int) *ImageServer {
	t.Helper()

	s := &ImageServer{hits: map[string]int{}, image: JPEG(t, width, height)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *ImageServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	s.mu.Unlock()

	switch {
	case strings.Contains(r.URL.Path, "missing"):
		http.NotFound(w, r)
	case strings.Contains(r.URL.Path, "broken"):
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("this is not an image"))
	default:
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(s.image)
	}
}

// ImageURL returns an absolute URL for path on the server.
func (s *ImageServer) ImageURL(path string) string {
	return s.Server.URL + "/" + strings.TrimPrefix(path, "/")
}

// Hits returns how many requests path received.
func (s *ImageServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits["/"+strings.TrimPrefix(path, "/")]
}

// TotalHits returns the number of requests across all paths.
func (s *ImageServer) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}
