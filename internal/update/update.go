package update

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// ReleasesURL is the latest-release endpoint of the GitHub Releases API.
const ReleasesURL = "https://api.github.com/repos/matheuskafuri/newsticker/releases/latest"

// Result holds the outcome of a version check.
type Result struct {
	CurrentVersion string
	LatestVersion  string
}

type ghRelease struct {
	TagName string `json:"tag_name"`
}

type Checker struct {
	Client *http.Client
	URL    string
}

// Check asks the releases endpoint whether a newer version is available.
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
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Accept", "application/vnd.github+json")

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
	if latest == "" || latest == current {
		return nil
	}
	return &Result{CurrentVersion: current, LatestVersion: latest}
}
