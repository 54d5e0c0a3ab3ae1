package main

import (
	"strings"
	"testing"
)

func TestConvertRejectsNonXMLOutput(t *testing.T) {
	cmd := &ConvertCmd{Index: "Acts.1", Output: "out.txt"}
	err := cmd.Run()
	if err == nil || !strings.Contains(err.Error(), ".xml") {
		t.Errorf("Run error = %v, want .xml extension complaint", err)
	}
}

func TestOfflineRequiresCache(t *testing.T) {
	_, _, _, err := newConverter(CacheFlags{NoCache: true, Offline: true})
	if err == nil {
		t.Error("offline without cache should fail")
	}
}

func TestVersionCmd(t *testing.T) {
	if err := (&VersionCmd{}).Run(); err != nil {
		t.Errorf("VersionCmd.Run failed: %v", err)
	}
}
