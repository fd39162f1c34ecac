package pfr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// Drives a real headless Chrome; opt in with PFR_BROWSER_TEST=1.
func TestBrowser_Listing(t *testing.T) {
	if os.Getenv("PFR_BROWSER_TEST") != "1" {
		t.Skip("set PFR_BROWSER_TEST=1 to run against a local chrome")
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/players/B/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(listingPage))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	b, err := NewBrowser(ctx, BrowserOptions{
		Base:        srv.URL,
		Headless:    true,
		PageTimeout: 20 * time.Second,
		ExecPath:    os.Getenv("CHROME_PATH"),
	})
	if err != nil {
		t.Fatalf("NewBrowser err: %v", err)
	}
	defer b.Close()

	got, err := b.Listing(ctx, "B")
	if err != nil {
		t.Fatalf("Listing err: %v", err)
	}
	want := []Entry{
		{Text: "Tom Brady (QB) 2000-2022", Href: srv.URL + "/players/B/BradTo00.htm"},
		{Text: "Jerry St. Brown (WR) 2015-2022", Href: srv.URL + "/players/B/BrowJe00.htm"},
		{Text: "No Link (K) 1950-1951"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close err: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close err: %v", err)
	}
}
