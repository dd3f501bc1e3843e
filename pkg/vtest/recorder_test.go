package vtest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/vango-dev/mirror/pkg/live"
	"github.com/vango-dev/mirror/pkg/message"
	"github.com/vango-dev/mirror/pkg/vtest"
)

func TestRecorderDecodesFlushedBatch(t *testing.T) {
	s, rec := vtest.NewSession(t)
	s.Do(func() { s.SetTitle("hello") })
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	msgs := rec.Messages()
	if len(msgs) != 2 || msgs[1].Event() != message.EventFlush {
		t.Fatalf("messages = %#v, want title then flush", msgs)
	}
	if title, _ := msgs[0].GetString("title"); title != "hello" {
		t.Errorf("title = %q", title)
	}

	rec.Reset()
	if len(rec.Frames()) != 0 {
		t.Fatal("Reset() kept frames")
	}
}

func TestRecorderFailSends(t *testing.T) {
	s, rec := vtest.NewSession(t)
	boom := errors.New("boom")
	rec.FailSends(boom)
	s.Do(func() { s.SetTitle("x") })
	if err := s.Flush(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Flush() error = %v, want %v", err, boom)
	}

	rec.FailSends(nil)
	s.Do(func() { s.SetTitle("y") })
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() after recovery error = %v", err)
	}
}

func TestRecorderSideChannels(t *testing.T) {
	s, rec := vtest.NewSession(t)
	var url string
	s.Do(func() { url = s.Share("/srv/report.pdf") })
	if _, ok := rec.SharedFile(url); ok {
		t.Fatal("file shared before flush")
	}
	if err := s.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if path, ok := rec.SharedFile(url); !ok || path != "/srv/report.pdf" {
		t.Fatalf("SharedFile(%q) = %q, %v", url, path, ok)
	}
	if rec.Upload("/upload/none", live.UploadedFile{Name: "a"}) {
		t.Fatal("Upload() to an unknown url succeeded")
	}
}
