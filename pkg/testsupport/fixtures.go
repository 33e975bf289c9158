package testsupport

import (
	"encoding/json"
	"os"
	"testing"
)

func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// MustLoadDocument decodes a JSON document fixture into a generic map.
func MustLoadDocument(t testing.TB, path string) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := LoadGolden(path, &doc); err != nil {
		t.Fatalf("load %s: %v", path, err)
	}
	return doc
}
