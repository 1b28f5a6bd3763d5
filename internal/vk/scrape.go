package vk

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const mobileBaseURL = "https://m.vk.com/"

// Scraper reads posts from the public mobile wall page. It is the fallback
// path when no API token is configured; it only sees the first page of the
// wall.
type Scraper struct {
	client *http.Client
	url    string
}

// NewScraper creates a scraper for the given group domain.
func NewScraper(domain string) *Scraper {
	return &Scraper{
		client: &http.Client{Timeout: 30 * time.Second},
		url:    mobileBaseURL + domain,
	}
}

// FetchPosts fetches and parses the wall page into posts.
func (s *Scraper) FetchPosts() ([]Post, error) {
	req, err := http.NewRequest("GET", s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching wall page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return s.parsePosts(resp.Body)
}

// parsePosts extracts post texts from the mobile wall markup. Two selector
// generations are tried because VK periodically renames the classes.
func (s *Scraper) parsePosts(r io.Reader) ([]Post, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	posts := make([]Post, 0)
	seen := make(map[string]bool)

	collect := func(i int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		posts = append(posts, Post{Text: text})
	}

	doc.Find(".wall_item .pi_text").Each(collect)
	if len(posts) == 0 {
		doc.Find(".wall_post_text").Each(collect)
	}

	return posts, nil
}
