package main

import "testing"

func TestParseOptionsDefaults(t *testing.T) {
	positional, opts, err := parseOptions([]string{"old.bin", "new.bin", "patch.bin"})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(positional) != 3 {
		t.Fatalf("expected 3 positional args, got %d", len(positional))
	}

	if opts.format != "streaming" {
		t.Errorf("expected default format streaming, got %s", opts.format)
	}

	if opts.verbose != 1 {
		t.Errorf("expected default verbosity 1, got %d", opts.verbose)
	}
}

func TestParseOptionsOverrides(t *testing.T) {
	positional, opts, err := parseOptions([]string{"old.bin", "--format=legacy", "--jobs=4", "--verbose=3", "new.bin"})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(positional) != 2 {
		t.Fatalf("expected 2 positional args, got %d", len(positional))
	}

	if opts.format != "legacy" {
		t.Errorf("format = %s, want legacy", opts.format)
	}

	if opts.jobs != 4 {
		t.Errorf("jobs = %d, want 4", opts.jobs)
	}

	if opts.verbose != 3 {
		t.Errorf("verbose = %d, want 3", opts.verbose)
	}
}

func TestParseOptionsRejectsBadVerbosity(t *testing.T) {
	_, _, err := parseOptions([]string{"--verbose=9"})

	if err == nil {
		t.Fatalf("expected error for out-of-range verbosity")
	}
}

func TestRunUnknownCommand(t *testing.T) {
	code := run([]string{"bsdiff", "frobnicate"})

	if code == 0 {
		t.Fatalf("expected non-zero exit code for unknown command")
	}
}
