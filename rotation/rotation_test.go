package rotation

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSelectNext(t *testing.T) {
	files := []string{"a.md", "b.md", "c.md"}

	tests := []struct {
		name      string
		files     []string
		lastIndex int
		wantFile  string
		wantIndex int
		wantOK    bool
	}{
		{"fresh start", files, -1, "a.md", 0, true},
		{"advance", files, 0, "b.md", 1, true},
		{"last", files, 1, "c.md", 2, true},
		{"wraparound", files, 2, "a.md", 0, true},
		{"shrunk listing renormalizes", files[:2], 2, "a.md", 0, true},
		{"single file", files[:1], 0, "a.md", 0, true},
		{"empty", nil, -1, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, idx, ok := SelectNext(tt.files, tt.lastIndex)
			if ok != tt.wantOK {
				t.Fatalf("SelectNext ok = %v, want %v", ok, tt.wantOK)
			}
			if file != tt.wantFile || idx != tt.wantIndex {
				t.Errorf("SelectNext = (%q, %d), want (%q, %d)", file, idx, tt.wantFile, tt.wantIndex)
			}
		})
	}
}

func TestSelectNext_ModuloForAllPositions(t *testing.T) {
	files := []string{"a", "b", "c", "d", "e"}

	for lastIndex := -1; lastIndex < len(files); lastIndex++ {
		_, idx, ok := SelectNext(files, lastIndex)
		if !ok {
			t.Fatalf("SelectNext returned no candidate for lastIndex %d", lastIndex)
		}
		want := (lastIndex + 1) % len(files)
		if idx != want {
			t.Errorf("lastIndex %d: idx = %d, want %d", lastIndex, idx, want)
		}
	}
}

func TestStore_LoadMissingFileIsFreshStart(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "state.json"))

	st := s.Load()
	if st.LastIndex != -1 {
		t.Errorf("LastIndex = %d, want -1", st.LastIndex)
	}
}

func TestStore_LoadCorruptFileIsFreshStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	st := NewStore(path).Load()
	if st.LastIndex != -1 {
		t.Errorf("LastIndex = %d, want -1", st.LastIndex)
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s := NewStore(path)

	if err := s.Save(State{LastIndex: 7}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	st := s.Load()
	if st.LastIndex != 7 {
		t.Errorf("LastIndex = %d, want 7", st.LastIndex)
	}
}
