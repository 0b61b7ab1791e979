package main

import "testing"

func TestParseArgumentsDefaults(t *testing.T) {
	got, err := parseArguments([]string{"prog.p"})
	if err != nil {
		t.Fatal(err)
	}
	if got.InputFile != "prog.p" {
		t.Errorf("InputFile = %q, want prog.p", got.InputFile)
	}
	if got.CacheBits != defaultCacheBits {
		t.Errorf("CacheBits = %d, want default %d", got.CacheBits, defaultCacheBits)
	}
	if got.DisableGUI || got.SingleStep {
		t.Error("boolean flags should default to false")
	}
}

func TestParseArgumentsLongFlags(t *testing.T) {
	got, err := parseArguments([]string{
		"--disable-gui",
		"--singlestep",
		"--cache-bits=3",
		"--overwrite-memory-size=100",
		"--overwrite-operand-size=2",
		"prog.p",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !got.DisableGUI || !got.SingleStep {
		t.Error("boolean flags should be set")
	}
	if got.CacheBits != 3 {
		t.Errorf("CacheBits = %d, want 3", got.CacheBits)
	}
	if !got.HasOverwriteMemSize || got.OverwriteMemSize != 100 {
		t.Errorf("OverwriteMemSize = %d, want 100", got.OverwriteMemSize)
	}
	if !got.HasOverwriteOpSize || got.OverwriteOpSize != 2 {
		t.Errorf("OverwriteOpSize = %d, want 2", got.OverwriteOpSize)
	}
}

func TestParseArgumentsShortFlags(t *testing.T) {
	got, err := parseArguments([]string{"-ng", "-s", "-c=5", "prog.p"})
	if err != nil {
		t.Fatal(err)
	}
	if !got.DisableGUI || !got.SingleStep || got.CacheBits != 5 {
		t.Errorf("got %+v", got)
	}
}

func TestParseArgumentsCacheBitsOutOfRange(t *testing.T) {
	if _, err := parseArguments([]string{"--cache-bits=7", "prog.p"}); err == nil {
		t.Error("expected error for cache-bits out of [1,6]")
	}
}

func TestParseArgumentsUnknownFlag(t *testing.T) {
	if _, err := parseArguments([]string{"--bogus", "prog.p"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestParseArgumentsRequiresPSuffix(t *testing.T) {
	if _, err := parseArguments([]string{"prog.txt"}); err == nil {
		t.Error("expected error for input file without .p suffix")
	}
}

func TestParseArgumentsLTRunGUIAllowsNoFile(t *testing.T) {
	got, err := parseArguments([]string{"--lt-run-gui"})
	if err != nil {
		t.Fatal(err)
	}
	if !got.LTRunGUI {
		t.Error("LTRunGUI should be true")
	}
}
