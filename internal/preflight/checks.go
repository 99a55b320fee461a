package preflight

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"recipeview/internal/recipe"
)

// HTTPDoer describes the HTTP client used by the image host probe.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCreatableDirectory passes when path is a usable directory or does not
// exist yet but its nearest existing parent is writable, since recipeview
// creates asset and state directories on demand.
func CheckCreatableDirectory(name, path string) Result {
	if _, err := os.Stat(path); err == nil || !os.IsNotExist(err) {
		return CheckDirectoryAccess(name, path)
	}
	parent := filepath.Dir(path)
	for {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			break
		}
		parent = next
	}
	if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, parent, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckDataset verifies the dataset parses and returns the first image URL
// for the host probe.
func CheckDataset(name, path string) (Result, string) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}, ""
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}, ""
	}
	defer f.Close()

	raws, err := recipe.ParseDocument(f)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}, ""
	}
	sample := ""
	for _, raw := range raws {
		if raw.Err == nil && raw.Image != "" {
			sample = raw.Image
			break
		}
	}
	detail := fmt.Sprintf("%s (%d entries)", path, len(raws))
	if n := recipe.Malformed(raws); n > 0 {
		detail = fmt.Sprintf("%s (%d entries, %d malformed)", path, len(raws), n)
	}
	return Result{Name: name, Passed: true, Detail: detail}, sample
}

// CheckImageHost issues one GET against imageURL and reports whether its host
// answered. Any HTTP status counts as reachable; only transport failures fail.
func CheckImageHost(ctx context.Context, client HTTPDoer, imageURL string) Result {
	const name = "Image host"

	parsed, err := url.Parse(imageURL)
	if err != nil || parsed.Host == "" {
		return Result{Name: name, Detail: fmt.Sprintf("invalid image url %q", imageURL)}
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, imageURL, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", parsed.Host, err)}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (unreachable: %v)", parsed.Host, err)}
	}
	defer resp.Body.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (HTTP %d)", parsed.Host, resp.StatusCode)}
}
