package kvs

import "testing"

func TestRegisterBackendDuplicateNameIsConfigError(t *testing.T) {
	if err := RegisterBackend("json", newJSONBackend); err != ConfigError {
		t.Fatalf("got %v, want ConfigError re-registering an existing name", err)
	}
}

func TestLookupBackendFindsJSON(t *testing.T) {
	factory, ok := lookupBackend("json")
	if !ok || factory == nil {
		t.Fatal("expected the json backend to be registered by default")
	}
}

func TestRegisterAndLookupCustomBackend(t *testing.T) {
	name := "mock-for-test"
	factory := func(dir string, maxCount SnapshotMaxCount) (Backend, error) {
		return newMockBackend(maxCount), nil
	}
	if err := RegisterBackend(name, factory); err != nil {
		t.Fatalf("RegisterBackend: %v", err)
	}
	got, ok := lookupBackend(name)
	if !ok || got == nil {
		t.Fatal("expected the newly registered backend to be found")
	}
}
