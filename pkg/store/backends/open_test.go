package backends

import (
	"errors"
	"testing"

	"github.com/thoth-station/solver-project-url/pkg/store"
	"github.com/thoth-station/solver-project-url/pkg/store/file"
	"github.com/thoth-station/solver-project-url/pkg/store/mongo"
	"github.com/thoth-station/solver-project-url/pkg/store/redis"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		location string
		want     string
		wantErr  error
	}{
		{"./results", "file", nil},
		{"/var/lib/thoth/solver", "file", nil},
		{"file:///var/lib/thoth/solver", "file", nil},
		{"mongodb://localhost:27017", "mongo", nil},
		{"mongodb+srv://cluster.example.com", "mongo", nil},
		{"MongoDB://localhost", "mongo", nil},
		{"redis://localhost:6379/0", "redis", nil},
		{"rediss://localhost:6380", "redis", nil},
		{"s3://bucket/prefix", "", store.ErrUnsupportedScheme},
		{"", "", store.ErrUnsupportedScheme},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			src, err := Open(tt.location, Options{})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Open() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error: %v", err)
			}
			var got string
			switch src.(type) {
			case *file.Store:
				got = "file"
			case *mongo.Store:
				got = "mongo"
			case *redis.Store:
				got = "redis"
			}
			if got != tt.want {
				t.Errorf("Open() backend = %s (%T), want %s", got, src, tt.want)
			}
		})
	}
}

func TestOpenInvalidRedisURL(t *testing.T) {
	if _, err := Open("redis://localhost/db", Options{}); err == nil {
		t.Error("Open() expected error for bad redis database")
	}
}
