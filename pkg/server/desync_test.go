package server

import (
	"testing"

	"github.com/trytobebee/snake_net/pkg/config"
)

func TestRecordChecksumFlagsMismatch(t *testing.T) {
	s := New(config.Default())

	if s.recordChecksum(10, 0, "aaaa") {
		t.Error("first digest for a turn reported a mismatch")
	}
	if !s.recordChecksum(10, 1, "bbbb") {
		t.Error("conflicting digests for the same turn were not flagged")
	}
}

func TestRecordChecksumAcceptsAgreement(t *testing.T) {
	s := New(config.Default())

	s.recordChecksum(20, 0, "cccc")
	if s.recordChecksum(20, 1, "cccc") {
		t.Error("matching digests flagged as divergence")
	}
}

func TestRecordChecksumPrunesStaleTurns(t *testing.T) {
	s := New(config.Default())

	s.recordChecksum(0, 0, "aaaa")
	s.recordChecksum(100, 0, "bbbb")

	if _, ok := s.checksums[0]; ok {
		t.Error("digest for a long-past turn was kept")
	}
	if _, ok := s.checksums[100]; !ok {
		t.Error("digest for the current turn was dropped")
	}
}
