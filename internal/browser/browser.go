package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/iadityasingh7/news/internal/news"
)

// ErrNoLink is returned for articles that carry the fallback link.
var ErrNoLink = errors.New("article has no link")

// launch starts the platform opener. Replaced in tests.
var launch = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open hands an http(s) URL to the system browser.
func Open(rawURL string) error {
	if rawURL == "" || rawURL == news.FallbackURL {
		return ErrNoLink
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", rawURL)
	}

	name, args := command(runtime.GOOS, rawURL)
	if err := launch(name, args...); err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}
	return nil
}

// OpenArticle opens the article's source page.
func OpenArticle(a news.Article) error {
	if !a.HasLink() {
		return ErrNoLink
	}
	return Open(a.URL)
}

func command(goos, rawURL string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{rawURL}
	case "windows":
		// rundll32 avoids cmd /c start and its shell interpretation
		return "rundll32", []string{"url.dll,FileProtocolHandler", rawURL}
	default:
		return "xdg-open", []string{rawURL}
	}
}
