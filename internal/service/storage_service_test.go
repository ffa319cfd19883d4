package service

import (
	"strings"
	"testing"
	"time"

	"edu_lms_backend/internal/config"
)

func TestObjectName_LayoutAndExtension(t *testing.T) {
	name := ObjectName("avatars", "me.PNG")

	parts := strings.Split(name, "/")
	if len(parts) != 3 {
		t.Fatalf("expected dir/date/file layout got %q", name)
	}
	if parts[0] != "avatars" {
		t.Fatalf("expected avatars prefix got %q", parts[0])
	}
	if parts[1] != time.Now().Format("20060102") {
		t.Fatalf("expected date segment got %q", parts[1])
	}
	if !strings.HasSuffix(parts[2], ".PNG") {
		t.Fatalf("expected original extension kept got %q", parts[2])
	}
}

func TestObjectName_UniquePerCall(t *testing.T) {
	a := ObjectName("videos", "lecture.mp4")
	b := ObjectName("videos", "lecture.mp4")
	if a == b {
		t.Fatalf("expected unique object names, both were %q", a)
	}
}

func TestLocalStorageProvider_GetURL(t *testing.T) {
	p := &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: "uploads"}}
	if got := p.GetURL("avatars/20260829/x.png"); got != "/uploads/avatars/20260829/x.png" {
		t.Fatalf("unexpected url %q", got)
	}

	p.Config.BaseURL = "https://cdn.example.com"
	if got := p.GetURL("avatars/20260829/x.png"); got != "https://cdn.example.com/avatars/20260829/x.png" {
		t.Fatalf("unexpected url %q", got)
	}
}
