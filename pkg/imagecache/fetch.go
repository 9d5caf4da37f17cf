package imagecache

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strings"

	// Registered decoders for the re-encode strategy.
	_ "image/gif"
	_ "image/jpeg"
)

// ByteGetter fetches the raw bytes behind a locator.
// *httputil.Client satisfies this; tests substitute counting fakes.
type ByteGetter interface {
	GetBytes(ctx context.Context, url string) ([]byte, error)
}

// fetchStrategy is one way of turning a remote locator into displayable
// pixel content. Strategies are tried in order; each may fail independently.
type fetchStrategy struct {
	name string
	fn   func(ctx context.Context, getter ByteGetter, url string) (Image, error)
}

// defaultStrategies returns the ordered fetch strategies:
//
//  1. raw: a direct byte fetch, kept verbatim when the payload already is a
//     recognizable image.
//  2. reencode: fetch, fully decode, and re-encode as PNG. Handles servers
//     that mislabel content or serve formats the display path cannot use
//     directly, at the cost of a decode pass.
//
// The final fallback (hand back the raw locator) is not a strategy: it
// cannot fail and is applied by the cache when the list is exhausted.
func defaultStrategies() []fetchStrategy {
	return []fetchStrategy{
		{name: "raw", fn: fetchRaw},
		{name: "reencode", fn: fetchReencode},
	}
}

// fetchRaw fetches the remote bytes and keeps them as-is, provided they
// sniff as image content.
func fetchRaw(ctx context.Context, getter ByteGetter, url string) (Image, error) {
	data, err := getter.GetBytes(ctx, url)
	if err != nil {
		return Image{}, err
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("empty response for %s", url)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return Image{}, fmt.Errorf("response for %s is %s, not an image", url, mime)
	}
	return Image{URL: url, Data: data, MIME: mime}, nil
}

// fetchReencode fetches the remote bytes, decodes them with any registered
// image codec, and re-encodes the pixels as PNG.
func fetchReencode(ctx context.Context, getter ByteGetter, url string) (Image, error) {
	data, err := getter.GetBytes(ctx, url)
	if err != nil {
		return Image{}, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("decode %s: %w", url, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Image{}, fmt.Errorf("encode %s: %w", url, err)
	}
	return Image{URL: url, Data: buf.Bytes(), MIME: "image/png"}, nil
}
