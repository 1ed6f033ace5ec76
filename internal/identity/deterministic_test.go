package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsDeterministic(t *testing.T) {
	first := UUID("tweetembed:document:posts/a.md")
	second := UUID("tweetembed:document:posts/a.md")
	if first == uuid.Nil || first != second {
		t.Fatalf("expected stable non-nil id, got %s and %s", first, second)
	}
	if UUID("tweetembed:document:posts/b.md") == first {
		t.Fatalf("expected distinct keys to produce distinct ids")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if got := UUID("  "); got != uuid.Nil {
		t.Fatalf("expected nil uuid for blank key, got %s", got)
	}
}

func TestDocumentUUIDNormalisesPath(t *testing.T) {
	want := DocumentUUID("posts/a.md")
	for _, input := range []string{"./posts/a.md", "/posts/a.md", "posts//a.md"} {
		if got := DocumentUUID(input); got != want {
			t.Fatalf("DocumentUUID(%q) = %s, want %s", input, got, want)
		}
	}
	if DocumentUUID("") != uuid.Nil || DocumentUUID(".") != uuid.Nil {
		t.Fatalf("expected nil uuid for empty paths")
	}
}
