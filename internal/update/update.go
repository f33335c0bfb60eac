package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ReleasesURL is the latest-release endpoint for this repository.
const ReleasesURL = "https://api.github.com/repos/iadityasingh7/news/releases/latest"

// Result holds the outcome of a version check.
type Result struct {
	LatestVersion string
}

// Message is the text shown to the user.
func (r *Result) Message() string {
	return fmt.Sprintf("Update available: v%s", r.LatestVersion)
}

type ghRelease struct {
	TagName string `json:"tag_name"`
}

// Checker queries a GitHub-style releases endpoint.
type Checker struct {
	URL    string
	Client *http.Client
}

// Check reports whether a release newer than currentVersion exists.
// Returns nil on any error (non-fatal) and for development builds.
func (c Checker) Check(ctx context.Context, currentVersion string) *Result {
	current := strings.TrimPrefix(currentVersion, "v")
	if current == "" || current == "dev" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	endpoint := c.URL
	if endpoint == "" {
		endpoint = ReleasesURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var release ghRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	if latest == "" || !newer(latest, current) {
		return nil
	}
	return &Result{LatestVersion: latest}
}

// Check uses the default endpoint.
func Check(ctx context.Context, currentVersion string) *Result {
	return Checker{}.Check(ctx, currentVersion)
}

// newer compares dotted numeric versions; pre-release suffixes are ignored.
func newer(latest, current string) bool {
	lp, cp := parts(latest), parts(current)
	for i := 0; i < len(lp) || i < len(cp); i++ {
		var l, c int
		if i < len(lp) {
			l = lp[i]
		}
		if i < len(cp) {
			c = cp[i]
		}
		if l != c {
			return l > c
		}
	}
	return false
}

func parts(v string) []int {
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	var out []int
	for _, p := range strings.Split(v, ".") {
		n, err := strconv.Atoi(p)
		if err != nil {
			n = 0
		}
		out = append(out, n)
	}
	return out
}
