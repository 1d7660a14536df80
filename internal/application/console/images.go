package console

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"
)

// MaxImageSize caps a single uploaded image.
const MaxImageSize = 10 << 20

const imageReaders = 4

// ErrNotAnImage is returned for uploads whose content is not an image.
var ErrNotAnImage = errors.New("file is not an image")

// ImageSource is one uploaded file.
type ImageSource struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// readImages encodes every source as a data URI concurrently. Each encoded
// image is handed to accept as soon as it is ready, so the order follows
// completion, not selection. Failed files are reported together.
func readImages(ctx context.Context, sources []ImageSource, maxSize int64, accept func(dataURI string)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(imageReaders)

	var mu sync.Mutex
	var errs []error
	for _, src := range sources {
		g.Go(func() error {
			uri, err := encodeImage(ctx, src, maxSize)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", src.Name, err))
				mu.Unlock()
				return nil
			}
			accept(uri)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func encodeImage(ctx context.Context, src ImageSource, maxSize int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rc, err := src.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxSize+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > maxSize {
		return "", fmt.Errorf("larger than %d MB", maxSize>>20)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", ErrNotAnImage
	}
	return "data:" + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
