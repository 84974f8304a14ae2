package migrations

import (
	"io/fs"
	"testing"
)

func TestSchemaContainsAppFiles(t *testing.T) {
	schema := Schema()
	want := []string{
		"app/users.sql",
		"app/verification_codes.sql",
		"app/job_queue.sql",
	}
	for _, name := range want {
		data, err := fs.ReadFile(schema, name)
		if err != nil {
			t.Errorf("missing schema file %s: %v", name, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("schema file %s is empty", name)
		}
	}
}
