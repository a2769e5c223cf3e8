package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		CPU:       filepath.Join(dir, "cpu.out"),
		Mem:       filepath.Join(dir, "mem.out"),
		ExecTrace: filepath.Join(dir, "exec.out"),
	}
	s, err := Start(opts)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{opts.CPU, opts.Mem, opts.ExecTrace} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", path)
		}
	}
	// повторный Stop ничего не делает
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
}

func TestNilSessionStop(t *testing.T) {
	var s *Session
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
}

func TestStartFailsOnBadPath(t *testing.T) {
	_, err := Start(Options{CPU: filepath.Join(t.TempDir(), "missing", "cpu.out")})
	if err == nil {
		t.Fatal("expected error")
	}
}
