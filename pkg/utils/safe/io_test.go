package safe_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/petpal/pkg/utils/logging"
	"github.com/secmon-lab/petpal/pkg/utils/safe"
)

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("close failed") }

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }

func TestClose(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.With(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	safe.Close(ctx, nil)
	gt.Value(t, buf.Len()).Equal(0)

	safe.Close(ctx, failingCloser{})
	gt.S(t, buf.String()).Contains("close failed")
}

func TestWrite(t *testing.T) {
	var logBuf bytes.Buffer
	ctx := logging.With(context.Background(), slog.New(slog.NewJSONHandler(&logBuf, nil)))

	var out bytes.Buffer
	safe.Write(ctx, &out, []byte("data"))
	gt.Value(t, out.String()).Equal("data")

	safe.Write(ctx, failingWriter{}, []byte("data"))
	gt.S(t, logBuf.String()).Contains("write failed")
}

func TestFlush(t *testing.T) {
	w := httptest.NewRecorder()
	safe.Flush(w)
	gt.B(t, w.Flushed).True()

	// non-flusher is a no-op
	safe.Flush(&bytes.Buffer{})
}
