package catalog

import (
	"fmt"
	"testing"

	"github.com/vinayprograms/resumerag/index"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New()
	if err != nil {
		t.Fatalf("failed to create catalog: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func add(t *testing.T, c *Catalog, pos int, filename, text string) {
	t.Helper()
	if err := c.Add(index.Record{Position: pos, Filename: filename, Text: text}); err != nil {
		t.Fatalf("Add(%s): %v", filename, err)
	}
}

func TestCatalog_ListInPositionOrder(t *testing.T) {
	c := newTestCatalog(t)
	for i := 11; i >= 0; i-- {
		add(t, c, i, fmt.Sprintf("r%d.txt", i), "generic resume text")
	}

	entries, err := c.List("", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 12 {
		t.Fatalf("expected 12 entries, got %d", len(entries))
	}
	for i, e := range entries {
		if e.Position != i {
			t.Errorf("entry %d has position %d", i, e.Position)
		}
		if e.Filename != fmt.Sprintf("r%d.txt", i) {
			t.Errorf("entry %d filename = %q", i, e.Filename)
		}
	}
}

func TestCatalog_Filter(t *testing.T) {
	c := newTestCatalog(t)
	add(t, c, 0, "alice.pdf", "Senior Go engineer with Kubernetes experience")
	add(t, c, 1, "bob.docx", "Frontend developer, React and TypeScript")
	add(t, c, 2, "carol.txt", "Platform engineer: kubernetes, terraform")

	entries, err := c.List("kubernetes", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(entries), entries)
	}
	if entries[0].Filename != "alice.pdf" || entries[1].Filename != "carol.txt" {
		t.Errorf("unexpected order: %+v", entries)
	}

	none, err := c.List("cobol", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil result, got %#v", none)
	}
}

func TestCatalog_FilterMatchesFilename(t *testing.T) {
	c := newTestCatalog(t)
	add(t, c, 0, "alice resume.pdf", "nothing relevant")
	add(t, c, 1, "bob.pdf", "nothing relevant")

	entries, err := c.List("alice", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Position != 0 {
		t.Errorf("expected alice only, got %+v", entries)
	}
}

func TestCatalog_LimitAndCount(t *testing.T) {
	c := newTestCatalog(t)
	for i := 0; i < 5; i++ {
		add(t, c, i, fmt.Sprintf("r%d.txt", i), "text")
	}

	n, err := c.Count()
	if err != nil || n != 5 {
		t.Fatalf("Count() = %d, %v", n, err)
	}

	entries, err := c.List("", 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[1].Position != 1 {
		t.Errorf("limit 2 gave %+v", entries)
	}
}

func TestCatalog_Empty(t *testing.T) {
	c := newTestCatalog(t)
	entries, err := c.List("", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", entries)
	}
}

func TestCatalog_Characters(t *testing.T) {
	c := newTestCatalog(t)
	add(t, c, 0, "r.txt", "héllo")

	entries, _ := c.List("", 0)
	if len(entries) != 1 || entries[0].Characters != 5 {
		t.Errorf("entries = %+v", entries)
	}
}
