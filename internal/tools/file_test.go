package tools

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/fsgate/fsgate/internal/log"
	"github.com/fsgate/fsgate/internal/security"
)

func newTestToolset(t *testing.T) (*FileToolset, string) {
	t.Helper()
	root := t.TempDir()
	sb, err := security.NewSandbox(root)
	if err != nil {
		t.Fatalf("failed to create sandbox: %v", err)
	}
	ts, err := NewFileToolset(sb, security.NewExtensionPolicy(nil), false, log.NewNop())
	if err != nil {
		t.Fatalf("failed to create toolset: %v", err)
	}
	return ts, sb.Root()
}

func mustSucceed(t *testing.T, result Result, err error) Result {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected system error: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("expected success, got error: %v", result.Error)
	}
	return result
}

func mustFail(t *testing.T, result Result, err error, code ErrCode) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected system error: %v", err)
	}
	if result.Status != StatusError {
		t.Fatalf("expected %s error, got success: %v", code, result.Data)
	}
	if result.Error == nil || result.Error.Code != code {
		t.Fatalf("expected error code %s, got %v", code, result.Error)
	}
}

func TestReadFile(t *testing.T) {
	ts, root := newTestToolset(t)
	ctx := context.Background()

	if err := os.WriteFile(filepath.Join(root, "hello.txt"), []byte("hello"), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	t.Run("success", func(t *testing.T) {
		res1, err1 := ts.ReadFile(ctx, ReadFileInput{Path: "hello.txt"})
		result := mustSucceed(t, res1, err1)
		if result.Data["content"] != "hello" {
			t.Errorf("content = %v, want hello", result.Data["content"])
		}
		if result.Data["size"] != 5 {
			t.Errorf("size = %v, want 5", result.Data["size"])
		}
		if result.Data["path"] != "hello.txt" {
			t.Errorf("path = %v, want the caller-supplied path", result.Data["path"])
		}
	})

	t.Run("missing file", func(t *testing.T) {
		result, err := ts.ReadFile(ctx, ReadFileInput{Path: "ghost.txt"})
		mustFail(t, result, err, ErrCodeNotFound)
	})

	t.Run("directory target", func(t *testing.T) {
		if err := os.Mkdir(filepath.Join(root, "sub.txt"), 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		result, err := ts.ReadFile(ctx, ReadFileInput{Path: "sub.txt"})
		mustFail(t, result, err, ErrCodeWrongKind)
	})

	t.Run("disallowed extension on existing file", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(root, "notes.md"), []byte("x"), 0o600); err != nil {
			t.Fatalf("seed file: %v", err)
		}
		result, err := ts.ReadFile(ctx, ReadFileInput{Path: "notes.md"})
		mustFail(t, result, err, ErrCodeDisallowedType)
	})

	t.Run("traversal", func(t *testing.T) {
		result, err := ts.ReadFile(ctx, ReadFileInput{Path: "../outside.txt"})
		mustFail(t, result, err, ErrCodeOutOfBounds)
	})
}

func TestWriteFileRoundTrip(t *testing.T) {
	ts, _ := newTestToolset(t)
	ctx := context.Background()

	content := "round trip content\nwith newline"
	res2, err2 := ts.WriteFile(ctx, WriteFileInput{Path: "dir/file.json", Content: content})
	mustSucceed(t, res2, err2)

	res3, err3 := ts.ReadFile(ctx, ReadFileInput{Path: "dir/file.json"})
	result := mustSucceed(t, res3, err3)
	if result.Data["content"] != content {
		t.Errorf("round trip mismatch: got %q", result.Data["content"])
	}
}

func TestWriteFileOverwrites(t *testing.T) {
	ts, _ := newTestToolset(t)
	ctx := context.Background()

	res4, err4 := ts.WriteFile(ctx, WriteFileInput{Path: "a.txt", Content: "first"})
	mustSucceed(t, res4, err4)
	res5, err5 := ts.WriteFile(ctx, WriteFileInput{Path: "a.txt", Content: "second"})
	mustSucceed(t, res5, err5)

	res6, err6 := ts.ReadFile(ctx, ReadFileInput{Path: "a.txt"})
	result := mustSucceed(t, res6, err6)
	if result.Data["content"] != "second" {
		t.Errorf("expected silent overwrite, got %q", result.Data["content"])
	}
}

func TestWriteFileCreatesParents(t *testing.T) {
	ts, root := newTestToolset(t)

	res7, err7 := ts.WriteFile(context.Background(), WriteFileInput{Path: "a/b/c.txt", Content: "x"})
	mustSucceed(t, res7, err7)

	info, err := os.Stat(filepath.Join(root, "a", "b"))
	if err != nil || !info.IsDir() {
		t.Errorf("parent directories should be auto-created: %v", err)
	}
}

func TestWriteFileDisallowedExtension(t *testing.T) {
	ts, _ := newTestToolset(t)
	result, err := ts.WriteFile(context.Background(), WriteFileInput{Path: "run.sh", Content: "#!/bin/sh"})
	mustFail(t, result, err, ErrCodeDisallowedType)
}

func TestWriteFileSerialized(t *testing.T) {
	root := t.TempDir()
	sb, err := security.NewSandbox(root)
	if err != nil {
		t.Fatalf("failed to create sandbox: %v", err)
	}
	ts, err := NewFileToolset(sb, security.NewExtensionPolicy(nil), true, log.NewNop())
	if err != nil {
		t.Fatalf("failed to create toolset: %v", err)
	}

	res8, err8 := ts.WriteFile(context.Background(), WriteFileInput{Path: "locked.txt", Content: "x"})
	mustSucceed(t, res8, err8)

	res9, err9 := ts.ReadFile(context.Background(), ReadFileInput{Path: "locked.txt"})
	result := mustSucceed(t, res9, err9)
	if result.Data["content"] != "x" {
		t.Errorf("serialized write lost content: %v", result.Data["content"])
	}
}

func TestListDirectory(t *testing.T) {
	ts, root := newTestToolset(t)
	ctx := context.Background()

	// b.txt and a.json pass the policy, skip.md does not, sub/ always shows.
	for name, content := range map[string]string{"b.txt": "1", "a.json": "2", "skip.md": "3"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o600); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(root, "sub"), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	res10, err10 := ts.ListDirectory(ctx, ListDirectoryInput{})
	result := mustSucceed(t, res10, err10)
	if result.Data["path"] != "/" {
		t.Errorf("empty path should echo /, got %v", result.Data["path"])
	}
	if result.Data["count"] != 3 {
		t.Errorf("count = %v, want 3 (md file filtered)", result.Data["count"])
	}

	items, ok := result.Data["items"].([]map[string]any)
	if !ok {
		t.Fatalf("items has unexpected type %T", result.Data["items"])
	}
	want := []map[string]any{
		{"type": "file", "path": "a.json"},
		{"type": "file", "path": "b.txt"},
		{"type": "dir", "path": "sub"},
	}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("items = %v, want %v", items, want)
	}

	t.Run("deterministic order", func(t *testing.T) {
		res11, err11 := ts.ListDirectory(ctx, ListDirectoryInput{})
		again := mustSucceed(t, res11, err11)
		if !reflect.DeepEqual(again.Data["items"], result.Data["items"]) {
			t.Error("repeated listings of an unchanged directory differ")
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		result, err := ts.ListDirectory(ctx, ListDirectoryInput{Path: "nowhere"})
		mustFail(t, result, err, ErrCodeNotFound)
	})

	t.Run("file target", func(t *testing.T) {
		result, err := ts.ListDirectory(ctx, ListDirectoryInput{Path: "b.txt"})
		mustFail(t, result, err, ErrCodeWrongKind)
	})

	t.Run("subdirectory paths are root-relative", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(root, "sub", "inner.txt"), []byte("x"), 0o600); err != nil {
			t.Fatalf("seed: %v", err)
		}
		res12, err12 := ts.ListDirectory(ctx, ListDirectoryInput{Path: "sub"})
		result := mustSucceed(t, res12, err12)
		items := result.Data["items"].([]map[string]any)
		if len(items) != 1 || items[0]["path"] != "sub/inner.txt" {
			t.Errorf("items = %v, want [{file sub/inner.txt}]", items)
		}
	})
}

func TestDeleteFile(t *testing.T) {
	ts, root := newTestToolset(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		path := filepath.Join(root, "doomed.txt")
		if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
			t.Fatalf("seed: %v", err)
		}
		res13, err13 := ts.DeleteFile(ctx, DeleteFileInput{Path: "doomed.txt"})
		mustSucceed(t, res13, err13)
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("file still exists after delete")
		}
	})

	t.Run("ghost file is NotFound", func(t *testing.T) {
		result, err := ts.DeleteFile(ctx, DeleteFileInput{Path: "ghost.txt"})
		mustFail(t, result, err, ErrCodeNotFound)
	})

	t.Run("directory target", func(t *testing.T) {
		if err := os.Mkdir(filepath.Join(root, "d.txt"), 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		result, err := ts.DeleteFile(ctx, DeleteFileInput{Path: "d.txt"})
		mustFail(t, result, err, ErrCodeWrongKind)
	})

	t.Run("disallowed extension", func(t *testing.T) {
		result, err := ts.DeleteFile(ctx, DeleteFileInput{Path: "x.md"})
		mustFail(t, result, err, ErrCodeDisallowedType)
	})
}

func TestCreateDirectoryIdempotent(t *testing.T) {
	ts, root := newTestToolset(t)
	ctx := context.Background()

	res14, err14 := ts.CreateDirectory(ctx, CreateDirectoryInput{Path: "x/y/z"})
	mustSucceed(t, res14, err14)
	res15, err15 := ts.CreateDirectory(ctx, CreateDirectoryInput{Path: "x/y/z"})
	mustSucceed(t, res15, err15)

	info, err := os.Stat(filepath.Join(root, "x", "y", "z"))
	if err != nil || !info.IsDir() {
		t.Errorf("directory missing after create: %v", err)
	}
}

// TestScenario walks the full sequence from the acceptance scenario:
// write into a fresh root auto-creating a parent, list, read back,
// delete, then observe NotFound.
func TestScenario(t *testing.T) {
	ts, _ := newTestToolset(t)
	ctx := context.Background()

	res16, err16 := ts.WriteFile(ctx, WriteFileInput{Path: "a/b.txt", Content: "hi"})
	write := mustSucceed(t, res16, err16)
	if write.Data["size"] != 2 {
		t.Errorf("write size = %v, want 2", write.Data["size"])
	}

	res17, err17 := ts.ListDirectory(ctx, ListDirectoryInput{})
	list := mustSucceed(t, res17, err17)
	if list.Data["count"] != 1 {
		t.Errorf("list count = %v, want 1", list.Data["count"])
	}
	items := list.Data["items"].([]map[string]any)
	if items[0]["type"] != "dir" || items[0]["path"] != "a" {
		t.Errorf("items = %v, want [{dir a}]", items)
	}

	res18, err18 := ts.ReadFile(ctx, ReadFileInput{Path: "a/b.txt"})
	read := mustSucceed(t, res18, err18)
	if read.Data["content"] != "hi" {
		t.Errorf("content = %v, want hi", read.Data["content"])
	}

	res19, err19 := ts.DeleteFile(ctx, DeleteFileInput{Path: "a/b.txt"})
	mustSucceed(t, res19, err19)

	gone, err := ts.ReadFile(ctx, ReadFileInput{Path: "a/b.txt"})
	mustFail(t, gone, err, ErrCodeNotFound)
}

func TestNewFileToolsetValidation(t *testing.T) {
	sb, err := security.NewSandbox(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create sandbox: %v", err)
	}
	policy := security.NewExtensionPolicy(nil)

	if _, err := NewFileToolset(nil, policy, false, log.NewNop()); err == nil {
		t.Error("expected error for nil sandbox")
	}
	if _, err := NewFileToolset(sb, nil, false, log.NewNop()); err == nil {
		t.Error("expected error for nil policy")
	}
	if _, err := NewFileToolset(sb, policy, false, nil); err == nil {
		t.Error("expected error for nil logger")
	}
}
