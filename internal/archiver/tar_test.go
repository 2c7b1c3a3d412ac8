package archiver

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"strings"
	"testing"
)

func TestArchiveWriter_WritesEntriesSequentially(t *testing.T) {
	var buf bytes.Buffer
	aw, err := newArchiveWriter(&buf, FormatTar)
	if err != nil {
		t.Fatal(err)
	}
	entries := map[string][]byte{
		"one.txt": []byte("first"),
		"two.txt": []byte("second entry"),
	}
	for _, name := range []string{"one.txt", "two.txt"} {
		data := entries[name]
		if err := aw.WriteEntry(name, int64(len(data)), bytes.NewReader(data)); err != nil {
			t.Fatal(err)
		}
	}
	if err := aw.Close(); err != nil {
		t.Fatal(err)
	}

	tr := tar.NewReader(bytes.NewReader(buf.Bytes()))
	for _, name := range []string{"one.txt", "two.txt"} {
		hdr, err := tr.Next()
		if err != nil {
			t.Fatal(err)
		}
		if hdr.Name != name {
			t.Errorf("entry = %q, want %q", hdr.Name, name)
		}
		if hdr.Typeflag != tar.TypeReg {
			t.Errorf("typeflag = %v, want regular file", hdr.Typeflag)
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(data, entries[name]) {
			t.Errorf("entry %s content = %q, want %q", name, data, entries[name])
		}
	}
	if _, err := tr.Next(); err != io.EOF {
		t.Errorf("expected EOF after both entries, got %v", err)
	}
}

func TestArchiveWriter_CompressedArchiveReadsBack(t *testing.T) {
	var buf bytes.Buffer
	aw, err := newArchiveWriter(&buf, FormatGzip)
	if err != nil {
		t.Fatal(err)
	}
	data := []byte("compressed entry body")
	if err := aw.WriteEntry("x.bin", int64(len(data)), bytes.NewReader(data)); err != nil {
		t.Fatal(err)
	}
	if err := aw.Close(); err != nil {
		t.Fatal(err)
	}

	gr, err := gzip.NewReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	defer gr.Close()
	tr := tar.NewReader(gr)
	hdr, err := tr.Next()
	if err != nil {
		t.Fatal(err)
	}
	if hdr.Name != "x.bin" {
		t.Errorf("entry = %q, want x.bin", hdr.Name)
	}
	got, err := io.ReadAll(tr)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("content = %q, want %q", got, data)
	}
}

func TestArchiveWriter_CloseIdempotent(t *testing.T) {
	var buf bytes.Buffer
	aw, err := newArchiveWriter(&buf, FormatTar)
	if err != nil {
		t.Fatal(err)
	}
	if err := aw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := aw.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}

func TestArchiveWriter_BodyErrorSurfaces(t *testing.T) {
	var buf bytes.Buffer
	aw, err := newArchiveWriter(&buf, FormatTar)
	if err != nil {
		t.Fatal(err)
	}
	r := io.MultiReader(bytes.NewReader([]byte("part")), &failingReader{err: io.ErrUnexpectedEOF})
	if err := aw.WriteEntry("broken", 100, r); err == nil {
		t.Error("expected error from failing body reader")
	}
	_ = aw.Close()
}

func TestEntryName(t *testing.T) {
	cases := []struct {
		key, prefix string
		strip       bool
		want        string
	}{
		{"folder1/file.txt", "folder1/", true, "file.txt"},
		{"folder1/sub/file.txt", "folder1/", true, "sub/file.txt"},
		{"folder1/file.txt", "folder1", true, "file.txt"},
		{"folder1/file.txt", "folder1/", false, "folder1/file.txt"},
		{"folder1", "folder1", true, ""},
		{"other/file.txt", "folder1/", true, "other/file.txt"},
		{"file.txt", "", true, "file.txt"},
	}
	for _, c := range cases {
		if got := entryName(c.key, c.prefix, c.strip); got != c.want {
			t.Errorf("entryName(%q, %q, %v) = %q, want %q", c.key, c.prefix, c.strip, got, c.want)
		}
	}
}

func TestEntryName_NeverLeadingSlash(t *testing.T) {
	got := entryName("a//b.txt", "a", true)
	if strings.HasPrefix(got, "/") {
		t.Errorf("entry name %q must not start with a slash", got)
	}
}
