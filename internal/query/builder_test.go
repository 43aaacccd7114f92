package query

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestBuilderSkipsAbsentValues(t *testing.T) {
	var missing *string

	tests := []struct {
		name       string
		build      func() *Builder
		wantClause string
		wantArgs   []any
	}{
		{
			name: "assignments",
			build: func() *Builder {
				return Set().
					Add("email", strPtr("a@example.com")).
					Add("bio", missing).
					Add("image", strPtr("https://img"))
			},
			wantClause: "SET email = $1, image = $2",
			wantArgs:   []any{"a@example.com", "https://img"},
		},
		{
			name: "nothing added",
			build: func() *Builder {
				return Set().Add("email", missing).Add("bio", nil)
			},
			wantClause: "",
			wantArgs:   []any{},
		},
		{
			name: "seeded filter keeps running index",
			build: func() *Builder {
				return Where(int64(7)).
					Add("articles.slug", strPtr("hello-world")).
					Add("articles.author_id", int64(3))
			},
			wantClause: " WHERE articles.slug = $2 AND articles.author_id = $3",
			wantArgs:   []any{int64(7), "hello-world", int64(3)},
		},
		{
			name: "seed only is an empty clause",
			build: func() *Builder {
				return Where(int64(7)).Add("users.username", missing)
			},
			wantClause: "",
			wantArgs:   []any{int64(7)},
		},
		{
			name: "custom prefix and separator",
			build: func() *Builder {
				return New("HAVING ", " OR ").Add("a", 1).Add("b", 2)
			},
			wantClause: "HAVING a = $1 OR b = $2",
			wantArgs:   []any{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := tt.build().Finish()
			if clause != tt.wantClause {
				t.Fatalf("expected clause %q, got %q", tt.wantClause, clause)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Fatalf("expected args %#v, got %#v", tt.wantArgs, args)
			}
		})
	}
}

func TestBuilderChainsAcrossClauses(t *testing.T) {
	set := Set().Add("title", strPtr("New")).Add("body", strPtr("text"))
	if set.Added() != 2 {
		t.Fatalf("expected 2 assignments, got %d", set.Added())
	}
	setClause, args := set.Finish()

	where := Where(args...).Add("slug", "old").Add("author_id", int64(1))
	whereClause, args := where.Finish()

	got := "UPDATE articles " + setClause + whereClause
	want := "UPDATE articles SET title = $1, body = $2 WHERE slug = $3 AND author_id = $4"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if len(args) != 4 || args[3] != int64(1) {
		t.Fatalf("unexpected args %#v", args)
	}
	if where.Next() != 5 {
		t.Fatalf("expected next placeholder 5, got %d", where.Next())
	}
}

func TestBuilderNeverInterpolatesValues(t *testing.T) {
	hostile := "x'; DROP TABLE users; --"
	clause, args := Set().Add("bio", &hostile).Finish()
	if clause != "SET bio = $1" {
		t.Fatalf("value leaked into clause: %q", clause)
	}
	if args[0] != hostile {
		t.Fatalf("expected hostile value to be bound, got %#v", args[0])
	}
}
