package main

import "testing"

func withTestStore(t *testing.T) {
	t.Helper()
	storeDir = t.TempDir()
	quiet = false
	verbose = false
	jsonOut = false
}

func TestGetSetRoundTrip(t *testing.T) {
	withTestStore(t)

	if err := runSet([]string{"feature.enabled", "true"}); err != nil {
		t.Fatalf("runSet() error = %v", err)
	}

	output, err := captureOutput(t, func() error {
		return runGet([]string{"feature.enabled"})
	})
	if err != nil {
		t.Fatalf("runGet() error = %v", err)
	}
	assertContains(t, output, []string{"true"})
}

func TestGetMissingKeyErrors(t *testing.T) {
	withTestStore(t)

	if err := runGet([]string{"nope"}); err == nil {
		t.Fatal("runGet() on missing key: want error, got nil")
	}
}

func TestGetJSON(t *testing.T) {
	withTestStore(t)

	if err := runSet([]string{"retry.max", "3"}); err != nil {
		t.Fatalf("runSet() error = %v", err)
	}
	jsonOut = true

	output, err := captureOutput(t, func() error {
		return runGet([]string{"retry.max"})
	})
	if err != nil {
		t.Fatalf("runGet() error = %v", err)
	}
	assertJSON(t, output)
	assertContains(t, output, []string{"retry.max", "3"})
}
