package html2textile

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"pkt.systems/html2textile/internal/logfields"
)

// HTTPConvertRequest configures HTTPConvert.
type HTTPConvertRequest struct {
	URL string
	// Client defaults to http.DefaultClient.
	Client  *http.Client
	Writer  io.Writer
	Options []Option
}

const acceptHTML = "text/html, application/xhtml+xml;q=0.9, */*;q=0.1"

// HTTPConvert downloads a web page and writes its Textile rendition to
// req.Writer. Only http and https URLs are fetched, and any non-2xx answer
// is an error. The charset named in the response Content-Type header is
// used to decode the page.
func HTTPConvert(ctx context.Context, req HTTPConvertRequest) error {
	switch {
	case req.URL == "":
		return fmt.Errorf("fetch html: URL is required")
	case req.Writer == nil:
		return fmt.Errorf("fetch html: writer is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	page, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return fmt.Errorf("fetch html: %w", err)
	}
	if page.URL.Scheme != "http" && page.URL.Scheme != "https" {
		return fmt.Errorf("fetch html: unsupported scheme %q", page.URL.Scheme)
	}
	page.Header.Set("Accept", acceptHTML)

	client := req.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(page)
	if err != nil {
		return fmt.Errorf("fetch html: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("fetch html %s: status %s", req.URL, resp.Status)
	}
	contentType := resp.Header.Get("Content-Type")
	newConfig(req.Options).logger.Debug("page fetched", logfields.Input(req.URL), "content_type", contentType)
	return Convert(ConvertRequest{
		Reader:      resp.Body,
		Writer:      req.Writer,
		ContentType: contentType,
		Options:     req.Options,
	})
}
