package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"html"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/chatframe/internal/livechat"
	"github.com/dgallion1/chatframe/internal/transcript"
)

const chatDoc = `<html><body><div id="item-list">` +
	`<yt-live-chat-text-message-renderer><div id="content"><yt-live-chat-author-chip>Owner</yt-live-chat-author-chip><span id="message">A</span></div></yt-live-chat-text-message-renderer>` +
	`<yt-live-chat-text-message-renderer><div id="content"><span id="message">B</span></div></yt-live-chat-text-message-renderer>` +
	`<yt-live-chat-text-message-renderer><div id="content"><yt-live-chat-author-chip>Owner</yt-live-chat-author-chip><span id="message">C</span></div></yt-live-chat-text-message-renderer>` +
	`</div></body></html>`

func writeFixtures(t *testing.T) (srcdocPage, framePage, frameFile string) {
	t.Helper()
	dir := t.TempDir()
	srcdocPage = filepath.Join(dir, "srcdoc.html")
	framePage = filepath.Join(dir, "page.html")
	frameFile = filepath.Join(dir, "chat.html")

	files := map[string]string{
		srcdocPage: `<html><body><iframe id="chatframe" srcdoc="` + html.EscapeString(chatDoc) + `"></iframe></body></html>`,
		framePage:  `<html><body><iframe id="chatframe"></iframe></body></html>`,
		frameFile:  chatDoc,
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return srcdocPage, framePage, frameFile
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("OWNER_NAME", "")
	t.Setenv("FRAME_ID", "")
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAllFromSrcdoc(t *testing.T) {
	srcdoc, _, _ := writeFixtures(t)
	out, err := run(t, "all", "--page", srcdoc, "--owner", "Owner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "[0] Owner *: A\n[1] (unknown): B\n[2] Owner *: C\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestOwnerWithFrameFlag(t *testing.T) {
	_, pagePath, frameFile := writeFixtures(t)
	out, err := run(t, "owner", "Owner", "--page", pagePath, "--frame", "chatframe="+frameFile, "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var entries []transcript.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode output: %v (%q)", err, out)
	}
	if len(entries) != 2 || entries[0].Message != "A" || entries[1].Message != "C" {
		t.Errorf("expected [A C], got %+v", entries)
	}
	if entries[0].Index != 0 || entries[1].Index != 2 {
		t.Errorf("expected chat indexes [0 2], got [%d %d]", entries[0].Index, entries[1].Index)
	}
}

func TestUnavailableWithoutFrame(t *testing.T) {
	_, pagePath, _ := writeFixtures(t)
	if _, err := run(t, "all", "--page", pagePath); !errors.Is(err, livechat.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if _, err := run(t, "latest", "--page", pagePath); err == nil {
		t.Error("expected error for latest without a loaded frame")
	}
}

func TestLatestAndMessage(t *testing.T) {
	srcdoc, _, _ := writeFixtures(t)

	out, err := run(t, "latest", "--page", srcdoc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Owner: C\n" {
		t.Errorf("expected %q, got %q", "Owner: C\n", out)
	}

	out, err = run(t, "latest", "--page", srcdoc, "--owner", "Owner", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var latest transcript.Entry
	if err := json.Unmarshal([]byte(out), &latest); err != nil {
		t.Fatalf("decode output: %v (%q)", err, out)
	}
	if latest.Index != 2 || !latest.Owner || latest.Message != "C" {
		t.Errorf("expected owner entry C at index 2, got %+v", latest)
	}

	out, err = run(t, "message", "1", "--page", srcdoc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "B\n" {
		t.Errorf("expected %q, got %q", "B\n", out)
	}

	out, err = run(t, "message", "--page", srcdoc, "--", "-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "C\n" {
		t.Errorf("expected %q, got %q", "C\n", out)
	}

	if _, err := run(t, "message", "7", "--page", srcdoc); err == nil {
		t.Error("expected out of range error")
	}
}

func TestExport(t *testing.T) {
	srcdoc, _, _ := writeFixtures(t)
	outFile := filepath.Join(t.TempDir(), "chat.md")

	if _, err := run(t, "export", "--page", srcdoc, "--owner", "Owner", "--only-owner", "--title", "Stream", "-o", outFile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	got := string(data)
	if !strings.HasPrefix(got, "# Stream") || !strings.Contains(got, ": C") || strings.Contains(got, ": B") {
		t.Errorf("unexpected transcript %q", got)
	}

	if _, err := run(t, "export", "--page", srcdoc, "--format", "pdf"); err == nil {
		t.Error("expected error for unsupported format")
	}
	if _, err := run(t, "export", "--page", srcdoc, "--only-owner"); err == nil {
		t.Error("expected error for --only-owner without owner")
	}
}

func TestRequiresPage(t *testing.T) {
	if _, err := run(t, "all"); err == nil {
		t.Error("expected error without --page")
	}
	if _, err := run(t, "all", "--page", "x.html", "--frame", "broken"); err == nil {
		t.Error("expected error for malformed --frame")
	}
}
