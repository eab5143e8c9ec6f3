package game

import (
	"os"
	"testing"

	"github.com/trytobebee/snake_net/pkg/config"
)

func TestRecorderRoundTrip(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg := config.Default()
	rec, err := NewRecorder("test-session", cfg)
	if err != nil {
		t.Fatal(err)
	}

	rec.Record(TickRecord{Turn: 0, Tokens: []string{"snake_0_w"}})
	rec.Record(TickRecord{Turn: 1, Tokens: nil})
	rec.Record(TickRecord{Turn: 2, Tokens: []string{"snake_1_j", "snake_0_d"}, Checksum: "deadbeef"})
	rec.Close()

	gotCfg, ticks, err := ReadLog(rec.Path())
	if err != nil {
		t.Fatal(err)
	}

	if gotCfg.GridSize != cfg.GridSize || len(gotCfg.Snakes) != len(cfg.Snakes) {
		t.Errorf("log header config mismatch: %+v", gotCfg)
	}
	if len(ticks) != 3 {
		t.Fatalf("read %d ticks, want 3", len(ticks))
	}
	if ticks[2].Checksum != "deadbeef" {
		t.Errorf("checksum lost: %q", ticks[2].Checksum)
	}
	if len(ticks[2].Tokens) != 2 || ticks[2].Tokens[0] != "snake_1_j" {
		t.Errorf("token order lost: %v", ticks[2].Tokens)
	}
}

func TestRecorderCloseIsIdempotent(t *testing.T) {
	wd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	rec, err := NewRecorder("twice", config.Default())
	if err != nil {
		t.Fatal(err)
	}
	rec.Close()
	rec.Close()
	rec.Record(TickRecord{Turn: 0}) // must not panic after Close
}

func TestRecorderConcurrentRecordAndClose(t *testing.T) {
	wd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	rec, err := NewRecorder("race", config.Default())
	if err != nil {
		t.Fatal(err)
	}

	// Record must never send on the channel Close has already closed,
	// no matter how the two interleave.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			rec.Record(TickRecord{Turn: i})
		}
	}()

	rec.Close()
	<-done
}
