package version

import (
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestInfo_ReturnsFormattedString(t *testing.T) {
	info := Info()

	if !strings.HasPrefix(info, "Kismetcam ") {
		t.Errorf("Expected info to start with 'Kismetcam', got: %s", info)
	}
	for _, want := range []string{Version, Commit, BuildDate} {
		if !strings.Contains(info, want) {
			t.Errorf("Expected info to contain %q, got: %s", want, info)
		}
	}
}

func TestGet_ReturnsCorrectStruct(t *testing.T) {
	v := Get()

	if v.Version != Version {
		t.Errorf("Expected version %s, got %s", Version, v.Version)
	}
	if v.Commit != Commit {
		t.Errorf("Expected commit %s, got %s", Commit, v.Commit)
	}
	if v.BuildDate != BuildDate {
		t.Errorf("Expected build date %s, got %s", BuildDate, v.BuildDate)
	}
	if v.GoVersion != runtime.Version() {
		t.Errorf("Expected go version %s, got %s", runtime.Version(), v.GoVersion)
	}
	if !strings.Contains(v.Platform, "/") {
		t.Errorf("Expected os/arch platform, got %s", v.Platform)
	}
}

func TestStartDate_IsInitialized(t *testing.T) {
	if time.Since(StartDate) > time.Minute {
		t.Errorf("StartDate is too old: %s", StartDate)
	}
	if Uptime() < 0 {
		t.Errorf("Uptime is negative: %s", Uptime())
	}
}
